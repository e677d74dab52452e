// Package insight produces the short dashboard sentences: a greeting for the
// operator and a one-line comment on the month's figures.
package insight

import (
	"context"

	"arha/internal/core"
)

const (
	FallbackGreeting      = "Selamat datang di Jasa Arha Management Dashboard."
	FallbackEmptyGreeting = "Selamat datang kembali di Jasa Arha!"
	FallbackInsight       = "Rekapitulasi data berhasil dilakukan."
	FallbackEmptyInsight  = "Terus pantau transaksi Anda untuk pertumbuhan bisnis."
)

// Advisor never fails: implementations answer with a fallback sentence
// when they cannot produce their own.
type Advisor interface {
	Greeting(ctx context.Context, name string) string
	MonthlyInsight(ctx context.Context, revenue, expenses core.Money) string
}

// Static is the Advisor used when no model is configured.
type Static struct{}

var _ Advisor = Static{}

func (Static) Greeting(context.Context, string) string { return FallbackGreeting }

func (Static) MonthlyInsight(context.Context, core.Money, core.Money) string {
	return FallbackInsight
}
