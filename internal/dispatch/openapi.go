package dispatch

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

const securityScheme = "serviceToken"

// Document describes the HTTP surface, with one invoke variant per registered
// operation so the catalog never drifts from the registry.
func Document(registry *Registry, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "HR Assistant API",
			Description: "Command dispatch for the HR conversational agent.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Error": openapi3.NewSchemaRef("", errorSchema()),
			},
			SecuritySchemes: openapi3.SecuritySchemes{
				securityScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}

	variants := make([]*openapi3.Schema, 0, len(registry.order))
	for _, def := range registry.Definitions() {
		name := string(def.Operation) + "_arguments"
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", def.Parameters)

		body := openapi3.NewObjectSchema().
			WithProperty("operation", openapi3.NewStringSchema().WithEnum(string(def.Operation))).
			WithProperty("session_token", openapi3.NewStringSchema().WithMaxLength(128)).
			WithPropertyRef("arguments", openapi3.NewSchemaRef("#/components/schemas/"+name, def.Parameters)).
			WithRequired([]string{"operation", "session_token"})
		body.Description = def.Summary
		variants = append(variants, body)
	}

	token := operation("issueToken", "Exchange client credentials for a bearer token.", "")
	token.Security = &openapi3.SecurityRequirements{}
	token.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(
			openapi3.NewObjectSchema().
				WithProperty("client_id", openapi3.NewStringSchema()).
				WithProperty("client_secret", openapi3.NewStringSchema()).
				WithProperty("scope", openapi3.NewStringSchema()).
				WithRequired([]string{"client_id", "client_secret"})),
	}
	doc.AddOperation("/api/v1/auth/token", http.MethodPost, token)

	invoke := operation("invoke", "Run one registered operation for a linked session.", "invoke")
	invoke.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(openapi3.NewOneOfSchema(variants...)),
	}
	doc.AddOperation("/api/v1/invoke", http.MethodPost, invoke)

	doc.AddOperation("/api/v1/operations", http.MethodGet,
		operation("listOperations", "Catalog of registered operations and their parameters.", "invoke"))

	link := operation("createLink", "Bind a session token to an employee.", "link")
	link.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(
			openapi3.NewObjectSchema().
				WithProperty("employee_id", openapi3.NewInt64Schema().WithMin(1)).
				WithProperty("session_token", openapi3.NewStringSchema().WithMaxLength(128)).
				WithRequired([]string{"employee_id", "session_token"}).
				WithoutAdditionalProperties()),
	}
	doc.AddOperation("/api/v1/links", http.MethodPost, link)

	unlink := operation("deleteLink", "Remove the link of a session token.", "link")
	unlink.AddParameter(openapi3.NewPathParameter("token").WithSchema(openapi3.NewStringSchema()))
	doc.AddOperation("/api/v1/links/{token}", http.MethodDelete, unlink)

	reports := []struct {
		path, id, summary string
		params            []*openapi3.Parameter
	}{
		{"/api/v1/reports/on-leave", "employeesOnLeave", "Employees on approved leave on a day.", []*openapi3.Parameter{
			openapi3.NewQueryParameter("date").WithSchema(openapi3.NewStringSchema().WithFormat("date")),
			openapi3.NewQueryParameter("department_id").WithSchema(openapi3.NewInt64Schema()),
		}},
		{"/api/v1/reports/upcoming", "upcomingLeaves", "Approved leaves starting in the coming days.", []*openapi3.Parameter{
			openapi3.NewQueryParameter("days").WithSchema(openapi3.NewIntegerSchema().WithMin(1).WithMax(365)),
		}},
		{"/api/v1/reports/pending", "pendingRequests", "Requests awaiting a decision.", []*openapi3.Parameter{
			openapi3.NewQueryParameter("department_id").WithSchema(openapi3.NewInt64Schema()),
		}},
		{"/api/v1/reports/low-balance", "lowBalances", "Employees with few remaining leave days.", []*openapi3.Parameter{
			openapi3.NewQueryParameter("threshold").WithSchema(openapi3.NewIntegerSchema().WithMin(0)),
		}},
		{"/api/v1/reports/leave-statistics", "leaveStatistics", "Request counts by status and entitlement usage.", nil},
		{"/api/v1/departments", "departments", "Departments with head counts and average salary.", nil},
	}
	for _, r := range reports {
		op := operation(r.id, r.summary, "reports")
		for _, p := range r.params {
			op.AddParameter(p)
		}
		doc.AddOperation(r.path, http.MethodGet, op)
	}

	return doc
}

func operation(id, summary, scope string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Security = &openapi3.SecurityRequirements{
		openapi3.NewSecurityRequirement().Authenticate(securityScheme, scope),
	}
	errRef := &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription("Typed error").
		WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Error", errorSchema())))}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("OK")}),
		openapi3.WithStatus(http.StatusBadRequest, errRef),
		openapi3.WithStatus(http.StatusUnauthorized, errRef),
	)
	return op
}

func errorSchema() *openapi3.Schema {
	inner := openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewObjectSchema())
	return openapi3.NewObjectSchema().WithProperty("error", inner)
}
