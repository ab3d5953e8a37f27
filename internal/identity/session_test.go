package identity_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/identity"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SessionStore", func() {
	var (
		clk      *clock.FakeClock
		sessions *identity.SessionStore
		ctx      context.Context
	)

	BeforeEach(func() {
		clk = clock.Fake(time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC))
		sessions = identity.NewSessionStore(30*time.Minute, clk, logger.Discard())
		ctx = context.Background()
	})

	It("opens a session lazily on first acquire", func() {
		release, err := sessions.Acquire(ctx, "chat-1", 7)
		Expect(err).NotTo(HaveOccurred())

		info, ok := sessions.Get("chat-1")
		Expect(ok).To(BeTrue())
		Expect(info.EmployeeID).To(Equal(int64(7)))
		Expect(info.InFlight).To(Equal(1))

		release()
		release()
		info, _ = sessions.Get("chat-1")
		Expect(info.InFlight).To(BeZero())
		Expect(info.Invocations).To(Equal(int64(1)))
	})

	It("sweeps idle sessions only", func() {
		sessions.Open("idle", 1)
		clk.Advance(20 * time.Minute)
		sessions.Open("active", 2)
		clk.Advance(15 * time.Minute)

		Expect(sessions.Sweep()).To(Equal(1))
		_, ok := sessions.Get("idle")
		Expect(ok).To(BeFalse())
		_, ok = sessions.Get("active")
		Expect(ok).To(BeTrue())
	})

	It("never sweeps a session with an invocation in flight", func() {
		release, err := sessions.Acquire(ctx, "busy", 3)
		Expect(err).NotTo(HaveOccurred())

		clk.Advance(2 * time.Hour)
		Expect(sessions.Sweep()).To(BeZero())
		Expect(sessions.Len()).To(Equal(1))

		release()
		clk.Advance(2 * time.Hour)
		Expect(sessions.Sweep()).To(Equal(1))
	})

	It("rebinds a token that now belongs to another employee", func() {
		sessions.Open("chat-1", 1)
		sessions.Open("chat-1", 2)
		info, _ := sessions.Get("chat-1")
		Expect(info.EmployeeID).To(Equal(int64(2)))
	})

	It("serializes invocations of one session", func() {
		var (
			active  atomic.Int32
			overlap atomic.Bool
			wg      sync.WaitGroup
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				release, err := sessions.Acquire(ctx, "chat-1", 1)
				Expect(err).NotTo(HaveOccurred())
				defer release()
				if active.Add(1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(2 * time.Millisecond)
				active.Add(-1)
			}()
		}
		wg.Wait()

		Expect(overlap.Load()).To(BeFalse())
		info, _ := sessions.Get("chat-1")
		Expect(info.Invocations).To(Equal(int64(8)))
	})

	It("gives up waiting when the context ends", func() {
		release, err := sessions.Acquire(ctx, "chat-1", 1)
		Expect(err).NotTo(HaveOccurred())

		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err = sessions.Acquire(waitCtx, "chat-1", 1)
		Expect(err).To(MatchError(context.DeadlineExceeded))

		release()
		Eventually(func() error {
			r, err := sessions.Acquire(ctx, "chat-1", 1)
			if err == nil {
				r()
			}
			return err
		}).Should(Succeed())
	})

	It("evicts on demand", func() {
		sessions.Open("chat-1", 1)
		Expect(sessions.Evict("chat-1")).To(BeTrue())
		Expect(sessions.Evict("chat-1")).To(BeFalse())
	})
})
