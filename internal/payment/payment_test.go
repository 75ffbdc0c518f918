package payment_test

import (
	"strings"
	"testing"
	"time"

	"ceethaluxe/internal/domain/model"
	"ceethaluxe/internal/payment"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedProvider_SucceedsAfterDelay(t *testing.T) {
	p := payment.NewSimulatedProvider(10 * time.Millisecond)

	ch := make(chan payment.Result, 1)
	p.Initialize(model.Order{ID: 1}, func(r payment.Result) { ch <- r })

	select {
	case res := <-ch:
		assert.True(t, res.Success)
		assert.True(t, strings.HasPrefix(res.Reference, "SIM_"))
		assert.Empty(t, res.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not invoked")
	}
}

func TestSimulatedProvider_DoesNotBlockCaller(t *testing.T) {
	p := payment.NewSimulatedProvider(200 * time.Millisecond)

	start := time.Now()
	p.Initialize(model.Order{ID: 1}, func(payment.Result) {})

	// Initialize自体はすぐ返る
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
