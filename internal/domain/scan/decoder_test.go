package scan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Decode — formato de 7 campos separados por pipe
// ──────────────────────────────────────────────────────────────────────────────

func TestDecode_CodigoValido(t *testing.T) {
	d, err := Decode("NF01|000123|3|SP01|ACME FARMA|SAO PAULO|ROD")
	require.NoError(t, err)

	assert.Equal(t, "NF01", d.Code)
	assert.Equal(t, "000123", d.InvoiceNumber)
	assert.Equal(t, 3, d.Volume)
	assert.Equal(t, "SP01", d.DestinationCode)
	assert.Equal(t, "ACME FARMA", d.SupplierName)
	assert.Equal(t, "SAO PAULO", d.FinalDestination)
	assert.Equal(t, "ROD", d.CargoType)
}

func TestDecode_CamposDemais(t *testing.T) {
	_, err := Decode("NF01|000123|3|SP01|ACME|SAO PAULO|ROD|EXTRA")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 7, fe.Expected)
	assert.Equal(t, 8, fe.Got)
}

func TestDecode_CamposDeMenos(t *testing.T) {
	_, err := Decode("NF01|000123|3")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 3, fe.Got)
}

func TestDecode_CampoVazio(t *testing.T) {
	// 7 campos, mas o fornecedor é vazio
	_, err := Decode("NF01|000123|3|SP01||SAO PAULO|ROD")
	var fe *FormatError
	assert.ErrorAs(t, err, &fe, "campo vazio deve ser erro de formato")
}

func TestDecode_CampoSomenteEspacos(t *testing.T) {
	_, err := Decode("NF01|000123|3|SP01|   |SAO PAULO|ROD")
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestDecode_VolumeInvalido(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"nao numerico", "NF01|000123|abc|SP01|ACME|SAO PAULO|ROD"},
		{"zero", "NF01|000123|0|SP01|ACME|SAO PAULO|ROD"},
		{"negativo", "NF01|000123|-2|SP01|ACME|SAO PAULO|ROD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			var ve *VolumeError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestDecode_VolumeInvalidoNaoEhErroDeFormato(t *testing.T) {
	// A classificação importa: volume inválido tem status próprio no carro.
	_, err := Decode("NF01|000123|x|SP01|ACME|SAO PAULO|ROD")
	var fe *FormatError
	assert.False(t, errors.As(err, &fe), "volume inválido não deve virar FormatError")
}

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeDestination — comparação tolerante a acentos e espaços
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeDestination(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SÃO JOSÉ", "SAO JOSE"},
		{"são  josé ", "SAO JOSE"},
		{"Ribeirão   Preto", "RIBEIRAO PRETO"},
		{"BELO HORIZONTE", "BELO HORIZONTE"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDestination(tc.in), "entrada: %q", tc.in)
	}
}

func TestNormalizeDestination_ComparacaoCoerente(t *testing.T) {
	// O coletor bipa sem acento; o cadastro guarda com acento.
	assert.Equal(t,
		NormalizeDestination("SÃO JOSÉ DO RIO PRETO"),
		NormalizeDestination("sao jose do rio preto"))
}
