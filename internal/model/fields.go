package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ContractField binds a document key to its struct field.
type ContractField struct {
	Key   string
	Label string
	Value func(*Document) *string
}

var ContractFields = []ContractField{
	{"nomeContratado", "Nome do Contratado", func(d *Document) *string { return &d.ContractorName }},
	{"cnpjContratado", "CNPJ do Contratado", func(d *Document) *string { return &d.ContractorTaxID }},
	{"enderecoContratado", "Endereço do Contratado", func(d *Document) *string { return &d.ContractorAddress }},
	{"municipioContratado", "Município do Contratado", func(d *Document) *string { return &d.ContractorCity }},
	{"contatoContratado", "Contato do Contratado", func(d *Document) *string { return &d.ContractorContact }},
	{"telefoneContratado", "Telefone do Contratado", func(d *Document) *string { return &d.ContractorPhone }},
	{"emailContratado", "E-mail do Contratado", func(d *Document) *string { return &d.ContractorEmail }},
	{"contratoFisico", "Contrato Físico", func(d *Document) *string { return &d.PhysicalContract }},
	{"contratoSapGlobal", "Contrato SAP Global", func(d *Document) *string { return &d.GlobalSAPContract }},
	{"codFornecedor", "Código do Fornecedor", func(d *Document) *string { return &d.SupplierCode }},
	{"valorContrato", "Valor do Contrato", func(d *Document) *string { return &d.ContractValue }},
	{"valorAditivo", "Valor Aditivo", func(d *Document) *string { return &d.AddendumValue }},
	{"prazoContrato", "Prazo do Contrato", func(d *Document) *string { return &d.ContractTerm }},
	{"execInicio", "Início da Execução", func(d *Document) *string { return &d.ExecutionStart }},
	{"execTermino", "Término da Execução", func(d *Document) *string { return &d.ExecutionEnd }},
	{"vigencia", "Início da Vigência", func(d *Document) *string { return &d.ValidityStart }},
	{"vigTermino", "Término da Vigência", func(d *Document) *string { return &d.ValidityEnd }},
	{"vlrUtilizado", "Valor Utilizado", func(d *Document) *string { return &d.AmountUsed }},
	{"nomeCliente", "Nome do Cliente", func(d *Document) *string { return &d.ClientName }},
	{"cnpjCliente", "CNPJ do Cliente", func(d *Document) *string { return &d.ClientTaxID }},
	{"enderecoCliente", "Endereço do Cliente", func(d *Document) *string { return &d.ClientAddress }},
	{"municipioCliente", "Município do Cliente", func(d *Document) *string { return &d.ClientCity }},
	{"contatoCliente", "Contato do Cliente", func(d *Document) *string { return &d.ClientContact }},
	{"telefoneCliente", "Telefone do Cliente", func(d *Document) *string { return &d.ClientPhone }},
	{"emailCliente", "E-mail do Cliente", func(d *Document) *string { return &d.ClientEmail }},
	{"objContrato", "Objeto do Contrato", func(d *Document) *string { return &d.ContractObject }},
}

// LookupContractField finds a contract field by its document key.
func LookupContractField(key string) (ContractField, bool) {
	for _, field := range ContractFields {
		if field.Key == key {
			return field, true
		}
	}
	return ContractField{}, false
}

// ConfigKey is one of the per-city configuration maps.
type ConfigKey struct {
	ID     string
	Label  string
	Values func(*Document) *map[string]string
}

var ConfigKeys = []ConfigKey{
	{"contratoSap", "Contrato SAP", func(d *Document) *map[string]string { return &d.SAPContract }},
	{"materialServico", "Material/Serviço", func(d *Document) *map[string]string { return &d.MaterialService }},
	{"pep", "PEP", func(d *Document) *map[string]string { return &d.PEP }},
	{"centroSap", "Centro SAP", func(d *Document) *map[string]string { return &d.SAPCenter }},
	{"municipioNf", "Município Geração NF", func(d *Document) *map[string]string { return &d.InvoiceCity }},
	{"cnpj", "CNPJ", func(d *Document) *map[string]string { return &d.TaxID }},
}

func LookupConfigKey(id string) (ConfigKey, bool) {
	for _, key := range ConfigKeys {
		if key.ID == id {
			return key, true
		}
	}
	return ConfigKey{}, false
}

// FieldValue is one [field, value] pair of the contract details export.
type FieldValue struct {
	Key   string
	Value string
}

// DetailFields lists every top-level scalar of the document: the catalog,
// the four price lists, the contract fields, then any extra keys sorted by
// name. Cities, quantities and the configuration maps are left out.
func (d *Document) DetailFields() []FieldValue {
	fields := []FieldValue{
		{"servicos", d.Services.String()},
		{"opexMetro", string(d.OpexMetro)},
		{"capexMetro", string(d.CapexMetro)},
		{"opexInterior", string(d.OpexInterior)},
		{"capexInterior", string(d.CapexInterior)},
	}
	for _, field := range ContractFields {
		fields = append(fields, FieldValue{Key: field.Key, Value: *field.Value(d)})
	}
	extra := make([]string, 0, len(d.Extra))
	for key := range d.Extra {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		fields = append(fields, FieldValue{Key: key, Value: rawText(d.Extra[key])})
	}
	return fields
}

// rawText shows a JSON string unquoted and anything else as compact JSON.
func rawText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
