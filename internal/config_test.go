package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/frahmantamala/hr-assistant/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Server: internal.ServerConfig{
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Driver:       "sqlite",
			Source:       "file:hr.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Security: internal.SecurityConfig{
			ServiceTokenSecret: "0123456789abcdef0123456789abcdef",
			Clients: []internal.ClientConfig{
				{ID: "chat-agent", SecretHash: "$2a$04$hash", Scopes: []string{"invoke"}},
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	It("fills defaults", func() {
		cfg := &internal.Config{}
		cfg.ApplyDefaults()

		Expect(cfg.App.Timezone).To(Equal("UTC"))
		Expect(cfg.Database.Driver).To(Equal("postgres"))
		Expect(cfg.Dispatch.Timeout).To(Equal(5 * time.Second))
		Expect(cfg.Session.IdleTimeout).To(Equal(30 * time.Minute))
		Expect(cfg.Session.SweepInterval).To(Equal(time.Minute))
		Expect(cfg.Security.Issuer).To(Equal("hr-assistant"))
		Expect(cfg.Observability.Logging.Format).To(Equal("text"))
	})

	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects",
		func(mutate func(*internal.Config), message string) {
			cfg := validConfig()
			mutate(cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(message)))
		},
		Entry("an unknown timezone",
			func(c *internal.Config) { c.App.Timezone = "Mars/Olympus" }, "invalid timezone"),
		Entry("an unknown driver",
			func(c *internal.Config) { c.Database.Driver = "mysql" }, "unsupported driver"),
		Entry("a missing source",
			func(c *internal.Config) { c.Database.Source = "" }, "source is required"),
		Entry("a short token secret",
			func(c *internal.Config) { c.Security.ServiceTokenSecret = "short" }, "at least 32 characters"),
		Entry("a duplicate client",
			func(c *internal.Config) { c.Security.Clients = append(c.Security.Clients, c.Security.Clients[0]) }, "declared twice"),
		Entry("a client without scopes",
			func(c *internal.Config) { c.Security.Clients[0].Scopes = nil }, "has no scopes"),
		Entry("too many read retries",
			func(c *internal.Config) { c.Dispatch.ReadRetries = 4 }, "read_retries"),
		Entry("a sweep slower than the idle timeout",
			func(c *internal.Config) { c.Session.SweepInterval = time.Hour }, "sweep_interval"),
	)

	It("reads the environment", func() {
		GinkgoT().Setenv("DB_DRIVER", "sqlite")
		GinkgoT().Setenv("DISPATCH_READ_RETRIES", "2")
		GinkgoT().Setenv("SESSION_IDLE_TIMEOUT", "10m")

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Database.Driver).To(Equal("sqlite"))
		Expect(cfg.Dispatch.ReadRetries).To(Equal(2))
		Expect(cfg.Session.IdleTimeout).To(Equal(10 * time.Minute))
		Expect(cfg.Server.Port).To(Equal(8080))
	})

	It("resolves the business location", func() {
		app := internal.AppConfig{Timezone: "Asia/Jakarta"}
		loc, err := app.Location()
		Expect(err).NotTo(HaveOccurred())
		Expect(loc.String()).To(Equal("Asia/Jakarta"))
	})
})

var _ = Describe("AppError", func() {
	It("is found through wrapping", func() {
		err := fmt.Errorf("request leave: %w", internal.NewPendingLimitError(3, 3))

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePendingLimitReached))
		Expect(internal.TypeOf(err)).To(Equal(internal.ErrorTypePendingLimit))
		Expect(internal.TypeOf(errors.New("plain"))).To(BeEmpty())
	})

	It("is retryable only for persistence failures", func() {
		Expect(internal.NewPersistenceError("down", internal.ErrCodeStorageUnavailable, nil).Retryable()).To(BeTrue())
		Expect(internal.NewInsufficientBalanceError(2, 5).Retryable()).To(BeFalse())
	})

	It("lends a single field failure's code to the error", func() {
		single := internal.NewArgumentFieldError("end_date", "is required", internal.ErrCodeMissingArgument)
		Expect(single.Code).To(Equal(internal.ErrCodeMissingArgument))

		many := internal.NewArgumentFieldErrors(
			internal.ValidationError{Field: "start_date", Code: string(internal.ErrCodeMissingArgument)},
			internal.ValidationError{Field: "end_date", Code: string(internal.ErrCodeMissingArgument)},
		)
		Expect(many.Code).To(Equal(internal.ErrCodeValidationFailed))
	})

	It("serializes without transport fields", func() {
		status, body := internal.NewInsufficientBalanceError(2, 5).ToHTTPResponse()
		Expect(status).To(Equal(422))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(MatchJSON(`{"error":{
			"type":"INSUFFICIENT_BALANCE",
			"code":"INSUFFICIENT_BALANCE",
			"message":"insufficient leave balance: 2 days remaining, 5 requested",
			"details":{"remaining_days":2,"requested_days":5}
		}}`))
	})
})
