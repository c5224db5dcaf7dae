package admission_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/infrastructure/memory"
	"github.com/logfarma/armazem-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *admission.AdmitScanUseCase
	carts     *memory.CartStore
	ledger    *memory.AdmissionLedger
	receiving *memory.ReceivingRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	carts := memory.NewCartStore()
	ledger := memory.NewAdmissionLedger()
	receiving := memory.NewReceivingRegistry()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return &fixture{
		uc:        admission.NewAdmitScanUseCase(carts, receiving, ledger, log),
		carts:     carts,
		ledger:    ledger,
		receiving: receiving,
	}
}

func (f *fixture) newCart(t *testing.T, id string) *entity.Cart {
	t.Helper()
	now := time.Now()
	c := &entity.Cart{
		ID:        id,
		Name:      "Carro " + id,
		Status:    entity.CartStatusScanning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.carts.Create(context.Background(), c))
	return c
}

func (f *fixture) receive(invoiceNumber string) {
	f.receiving.Put(&entity.ReceivingRecord{
		InvoiceNumber: invoiceNumber,
		Supplier:      "ACME FARMA",
		VolumeCount:   3,
		ReceivedAt:    time.Now(),
	})
}

// scanCode monta um código de 7 campos no formato dos coletores.
func scanCode(code, invoice string, volume int, destCode, finalDest, cargo string) string {
	return fmt.Sprintf("%s|%s|%d|%s|ACME FARMA|%s|%s", code, invoice, volume, destCode, finalDest, cargo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Admissão
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmitScan_NotaValida(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")
	f.receive("000123")

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeAdmit, res.Outcome)
	require.NotNil(t, res.Entry)
	assert.Equal(t, entity.EntryStatusValid, res.Entry.Status)
	assert.Equal(t, "000123", res.Entry.InvoiceNumber)

	rec, err := f.ledger.Get(context.Background(), "000123")
	require.NoError(t, err)
	require.NotNil(t, rec, "admissão registra no ledger global")
	assert.Equal(t, cart.ID, rec.CartID)
	assert.Equal(t, "op1", rec.OperatorID)

	stored, err := f.carts.GetByID(context.Background(), cart.ID)
	require.NoError(t, err)
	require.Len(t, stored.Entries, 1)
}

func TestAdmitScan_CarroTravado(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")
	require.NoError(t, f.carts.UpdateStatus(context.Background(), cart.ID, entity.CartStatusPacking))

	_, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	var locked *domain.LockedCartError
	assert.ErrorAs(t, err, &locked)
}

func TestAdmitScan_CarroInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AdmitScan(context.Background(), "EMB_nope", "op1", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rejeições gravadas (trilha de auditoria)
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmitScan_FormatoInvalido(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", "NF01|so|tres|campos")
	require.NoError(t, err, "rejeição de bipagem não é erro fatal")

	assert.Equal(t, admission.OutcomeRejectRecorded, res.Outcome)
	require.NotNil(t, res.Entry)
	assert.Equal(t, entity.EntryStatusInvalidFormat, res.Entry.Status)
	assert.Equal(t, "NF01|so|tres|campos", res.Entry.Code, "o código bruto fica na entrada")
	assert.NotEmpty(t, res.Entry.ErrorDetail)
	assert.Equal(t, 0, f.ledger.Len(), "rejeição não toca o ledger")
}

func TestAdmitScan_VolumeInvalido(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000123", 0, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeRejectRecorded, res.Outcome)
	assert.Equal(t, entity.EntryStatusInvalidVolume, res.Entry.Status)
}

func TestAdmitScan_DuplicataNoCarro(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")
	f.receive("000123")

	_, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeRejectRecorded, res.Outcome)
	assert.Equal(t, entity.EntryStatusDuplicate, res.Entry.Status)
	assert.ErrorIs(t, res.Reason, domain.ErrDuplicateInCart)

	stored, _ := f.carts.GetByID(context.Background(), cart.ID)
	assert.Len(t, stored.Entries, 2, "a duplicata fica gravada para auditoria")
}

func TestAdmitScan_SegregacaoDeCarga(t *testing.T) {
	f := newFixture(t)
	f.receive("000001")
	f.receive("000002")

	// Nos dois sentidos: ROD trava CON e CON trava ROD.
	for _, order := range [][2]string{{"ROD", "CON"}, {"CON", "ROD"}} {
		cart := f.newCart(t, "EMB_"+order[0])

		_, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000001", 3, "SP01", "SAO PAULO", order[0]))
		require.NoError(t, err)

		res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF02", "000002", 2, "SP01", "SAO PAULO", order[1]))
		require.NoError(t, err)

		assert.Equal(t, admission.OutcomeRejectRecorded, res.Outcome)
		assert.Equal(t, entity.EntryStatusInvalid, res.Entry.Status)
		assert.ErrorIs(t, res.Reason, domain.ErrSegregationConflict)

		// Remove a admissão para o próximo sentido reaproveitar as notas.
		require.NoError(t, f.ledger.Remove(context.Background(), "000001"))
	}
}

func TestAdmitScan_SemRecebimento(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeRejectRecorded, res.Outcome)
	assert.Equal(t, entity.EntryStatusInvalid, res.Entry.Status)
	assert.ErrorIs(t, res.Reason, domain.ErrNotReceived)
	assert.Equal(t, 0, f.ledger.Len())
}

func TestAdmitScan_DestinoDivergente_AdmiteSinalizada(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")
	f.receive("000001")
	f.receive("000002")

	_, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000001", 3, "SP01", "SÃO PAULO", "ROD"))
	require.NoError(t, err)

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF02", "000002", 2, "RJ01", "RIO DE JANEIRO", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeAdmit, res.Outcome, "divergência sinaliza, não bloqueia a admissão")
	assert.Equal(t, entity.EntryStatusDivergent, res.Entry.Status)

	rec, _ := f.ledger.Get(context.Background(), "000002")
	assert.NotNil(t, rec, "nota divergente também entra no ledger")
}

func TestAdmitScan_DestinoComAcentoNaoDiverge(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")
	f.receive("000001")
	f.receive("000002")

	_, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000001", 3, "SP01", "SÃO JOSÉ", "ROD"))
	require.NoError(t, err)

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF02", "000002", 2, "SP01", "sao  jose", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, entity.EntryStatusValid, res.Entry.Status,
		"acentuação e espaçamento não contam como divergência")
}

// ──────────────────────────────────────────────────────────────────────────────
// Duplicata global (entre carros)
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmitScan_DuplicataGlobal_RejeicaoSilenciosa(t *testing.T) {
	f := newFixture(t)
	first := f.newCart(t, "EMB_c1")
	second := f.newCart(t, "EMB_c2")
	f.receive("000123")

	_, err := f.uc.AdmitScan(context.Background(), first.ID, "op1", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	res, err := f.uc.AdmitScan(context.Background(), second.ID, "op2", scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeRejectSilent, res.Outcome)
	assert.Nil(t, res.Entry, "nada é gravado no segundo carro")
	require.NotNil(t, res.Conflict, "o operador vê onde a nota foi admitida")
	assert.Equal(t, first.ID, res.Conflict.CartID)

	var already *domain.AlreadyAdmittedError
	require.ErrorAs(t, res.Reason, &already)
	assert.Equal(t, "000123", already.InvoiceNumber)

	stored, _ := f.carts.GetByID(context.Background(), second.ID)
	assert.Empty(t, stored.Entries)
}

func TestAdmitScan_CorridaEntreCarros_ExatamenteUmaAdmissao(t *testing.T) {
	f := newFixture(t)
	f.receive("000123")

	const workers = 16
	cartIDs := make([]string, workers)
	for i := range cartIDs {
		cartIDs[i] = fmt.Sprintf("EMB_c%02d", i)
		f.newCart(t, cartIDs[i])
	}

	var wg sync.WaitGroup
	results := make([]*admission.Result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.uc.AdmitScan(context.Background(), cartIDs[i],
				fmt.Sprintf("op%02d", i), scanCode("NF01", "000123", 3, "SP01", "SAO PAULO", "ROD"))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, res := range results {
		if res.Outcome == admission.OutcomeAdmit {
			admitted++
		} else {
			assert.Equal(t, admission.OutcomeRejectSilent, res.Outcome)
		}
	}
	assert.Equal(t, 1, admitted, "a mesma nota em N carros produz exatamente uma admissão")
	assert.Equal(t, 1, f.ledger.Len())
}

// Sequência do fluxo real: nota válida, depois outra com o mesmo código de
// barras mas tipo de carga conflitante. A segunda cai na segregação (a
// deduplicação é por número de nota, não pelo código completo).
func TestAdmitScan_MesmoCodigoNotaDiferente_CaiNaSegregacao(t *testing.T) {
	f := newFixture(t)
	cart := f.newCart(t, "EMB_c1")
	f.receive("000001")
	f.receive("000002")

	_, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000001", 3, "SP01", "SAO PAULO", "ROD"))
	require.NoError(t, err)

	res, err := f.uc.AdmitScan(context.Background(), cart.ID, "op1", scanCode("NF01", "000002", 2, "SP01", "SAO PAULO", "CON"))
	require.NoError(t, err)

	assert.Equal(t, admission.OutcomeRejectRecorded, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrSegregationConflict)
}
