package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ShippingQuoteTotal counts shipping quote resolutions by source and result.
	ShippingQuoteTotal *prometheus.CounterVec
	// CheckoutTotal counts checkout hand-off attempts by result.
	CheckoutTotal *prometheus.CounterVec
	// CouponApplyTotal counts coupon applications by outcome.
	CouponApplyTotal *prometheus.CounterVec
	// ChatReplyTotal counts chat completions by result.
	ChatReplyTotal *prometheus.CounterVec
	// CartMutationTotal counts cart state mutations by operation.
	CartMutationTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ShippingQuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_quote_total",
			Help:      "Count of shipping quote resolutions by source and result.",
		}, []string{"source", "result"})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout preference creations by result.",
		}, []string{"result"})
		CouponApplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_apply_total",
			Help:      "Count of coupon applications by outcome.",
		}, []string{"outcome"})
		ChatReplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_reply_total",
			Help:      "Count of chat completions by result.",
		}, []string{"result"})
		CartMutationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutation_total",
			Help:      "Count of cart state mutations by operation.",
		}, []string{"op"})

		for _, c := range []**prometheus.CounterVec{
			&ShippingQuoteTotal, &CheckoutTotal, &CouponApplyTotal, &ChatReplyTotal, &CartMutationTotal,
		} {
			mustRegisterCounterVec(reg, c)
		}
	})
}

func mustRegisterCounterVec(reg prometheus.Registerer, collector **prometheus.CounterVec) {
	if err := reg.Register(*collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if v, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*collector = v
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
