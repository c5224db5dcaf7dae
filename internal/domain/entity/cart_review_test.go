package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logfarma/armazem-api/internal/domain"
)

func newPackingReview() *CartReview {
	now := time.Now()
	return &CartReview{
		ID:        "r1",
		CartID:    "EMB_c1",
		Stage:     ReviewStagePacking,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCartReview_EstagiosEmOrdem(t *testing.T) {
	r := newPackingReview()
	require.NoError(t, r.ToDivergenceReview())
	require.NoError(t, r.ToAwaitingDispatch())
	require.NoError(t, r.AddDispatchNumber("123456"))
	require.NoError(t, r.Dispatch())
	assert.Equal(t, ReviewStageDispatched, r.Stage)
}

func TestCartReview_EstagiosForaDeOrdem(t *testing.T) {
	r := newPackingReview()
	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, r.ToAwaitingDispatch(), &transition)
	assert.ErrorAs(t, r.Dispatch(), &transition)
}

func TestCartReview_NumeroForaDoEstagio(t *testing.T) {
	r := newPackingReview()
	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, r.AddDispatchNumber("123456"), &transition,
		"coleta de número só em aguardando_lancamento")
}

func TestCartReview_NumeroInvalido(t *testing.T) {
	r := newPackingReview()
	require.NoError(t, r.ToDivergenceReview())
	require.NoError(t, r.ToAwaitingDispatch())

	for _, bad := range []string{"12345", "1234567", "12345a", "", "12 456"} {
		assert.ErrorIs(t, r.AddDispatchNumber(bad), domain.ErrDispatchNumber, "número: %q", bad)
	}
	assert.Empty(t, r.DispatchNumbers)
}

func TestCartReview_NumeroRepetido(t *testing.T) {
	r := newPackingReview()
	require.NoError(t, r.ToDivergenceReview())
	require.NoError(t, r.ToAwaitingDispatch())

	require.NoError(t, r.AddDispatchNumber("123456"))
	assert.ErrorIs(t, r.AddDispatchNumber("123456"), domain.ErrDispatchNumber)
	assert.Equal(t, []string{"123456"}, r.DispatchNumbers)
}

func TestCartReview_DispatchSemNumero(t *testing.T) {
	r := newPackingReview()
	require.NoError(t, r.ToDivergenceReview())
	require.NoError(t, r.ToAwaitingDispatch())

	assert.ErrorIs(t, r.Dispatch(), domain.ErrDispatchNumber,
		"lançar exige ao menos um número coletado")
	assert.Equal(t, ReviewStageAwaitingDispatch, r.Stage)
}

func TestValidDispatchNumber(t *testing.T) {
	assert.True(t, ValidDispatchNumber("000000"))
	assert.True(t, ValidDispatchNumber("987654"))
	assert.False(t, ValidDispatchNumber("98765"))
	assert.False(t, ValidDispatchNumber("9876543"))
	assert.False(t, ValidDispatchNumber("98765x"))
}
