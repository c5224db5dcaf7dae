// Package scan decodifica códigos de barras de notas fiscais no formato
// usado pelos coletores: 7 campos separados por pipe, sem escape.
//
//	codigo|numeroNota|volumes|codigoDestino|fornecedor|destinoFinal|tipoCarga
package scan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldCount o formato exige exatamente 7 campos não vazios.
const fieldCount = 7

// Decoded nota fiscal estruturada a partir de um código bipado. Imutável.
type Decoded struct {
	Code             string
	InvoiceNumber    string
	Volume           int
	DestinationCode  string
	SupplierName     string
	FinalDestination string
	CargoType        string
}

// FormatError código malformado: quantidade de campos diferente de 7
// ou campo vazio.
type FormatError struct {
	Expected int
	Got      int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("código malformado: esperados %d campos, recebidos %d", e.Expected, e.Got)
}

// VolumeError o campo de volumes não é um inteiro estritamente positivo.
type VolumeError struct {
	Raw string
}

func (e *VolumeError) Error() string {
	return fmt.Sprintf("volume inválido: %q deve ser inteiro positivo", e.Raw)
}

// Decode converte o código bruto em uma nota estruturada. Função pura:
// valida apenas estrutura (campos e volume); fornecedor e destino são
// strings opacas nesta etapa.
func Decode(raw string) (*Decoded, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != fieldCount {
		return nil, &FormatError{Expected: fieldCount, Got: len(parts)}
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, &FormatError{Expected: fieldCount, Got: len(parts)}
		}
	}
	volume, err := strconv.Atoi(parts[2])
	if err != nil || volume <= 0 {
		return nil, &VolumeError{Raw: parts[2]}
	}
	return &Decoded{
		Code:             parts[0],
		InvoiceNumber:    parts[1],
		Volume:           volume,
		DestinationCode:  parts[3],
		SupplierName:     parts[4],
		FinalDestination: parts[5],
		CargoType:        parts[6],
	}, nil
}

// NormalizeDestination prepara um texto de destino para comparação de
// coerência: remove acentos, colapsa espaços e sobe para maiúsculas.
// Coletores e cadastros divergem em acentuação ("SÃO JOSÉ" vs "SAO JOSE").
func NormalizeDestination(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}
