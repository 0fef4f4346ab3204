package model

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Document is the whole persisted state of one contract.
type Document struct {
	ContractorName    string `json:"nomeContratado"`
	ContractorTaxID   string `json:"cnpjContratado"`
	ContractorAddress string `json:"enderecoContratado"`
	ContractorCity    string `json:"municipioContratado"`
	ContractorContact string `json:"contatoContratado"`
	ContractorPhone   string `json:"telefoneContratado"`
	ContractorEmail   string `json:"emailContratado"`
	PhysicalContract  string `json:"contratoFisico"`
	GlobalSAPContract string `json:"contratoSapGlobal"`
	SupplierCode      string `json:"codFornecedor"`
	ContractValue     string `json:"valorContrato"`
	AddendumValue     string `json:"valorAditivo"`
	ContractTerm      string `json:"prazoContrato"`
	ExecutionStart    string `json:"execInicio"`
	ExecutionEnd      string `json:"execTermino"`
	ValidityStart     string `json:"vigencia"`
	ValidityEnd       string `json:"vigTermino"`
	AmountUsed        string `json:"vlrUtilizado"`
	ClientName        string `json:"nomeCliente"`
	ClientTaxID       string `json:"cnpjCliente"`
	ClientAddress     string `json:"enderecoCliente"`
	ClientCity        string `json:"municipioCliente"`
	ClientContact     string `json:"contatoCliente"`
	ClientPhone       string `json:"telefoneCliente"`
	ClientEmail       string `json:"emailCliente"`
	ContractObject    string `json:"objContrato"`

	Services      ServiceCatalog `json:"servicos"`
	OpexMetro     PriceList      `json:"opexMetro"`
	CapexMetro    PriceList      `json:"capexMetro"`
	OpexInterior  PriceList      `json:"opexInterior"`
	CapexInterior PriceList      `json:"capexInterior"`

	Cities     []City                 `json:"cities"`
	Quantities map[string]QuantityRow `json:"quantidades"`

	SAPContract     map[string]string `json:"contratoSap"`
	MaterialService map[string]string `json:"materialServico"`
	PEP             map[string]string `json:"pep"`
	SAPCenter       map[string]string `json:"centroSap"`
	InvoiceCity     map[string]string `json:"municipioNf"`
	TaxID           map[string]string `json:"cnpj"`

	// Extra holds top-level keys written by other clients of the same
	// document. They are kept verbatim so a load and save does not drop them.
	Extra map[string]json.RawMessage `json:"-"`
}

type documentFields Document

var knownKeys = func() map[string]struct{} {
	t := reflect.TypeOf(Document{})
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}()

func (d *Document) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*documentFields)(d)); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key, value := range all {
		if _, known := knownKeys[key]; known {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]json.RawMessage)
		}
		d.Extra[key] = value
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(documentFields(d))
	if err != nil || len(d.Extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for key, value := range d.Extra {
		if _, taken := all[key]; !taken {
			all[key] = value
		}
	}
	return json.Marshal(all)
}

// Prices returns the OPEX and CAPEX lists that apply to a regional.
func (d *Document) Prices(regional Regional) (opex, capex PriceList) {
	if regional.IsMetro() {
		return d.OpexMetro, d.CapexMetro
	}
	return d.OpexInterior, d.CapexInterior
}

// CityIndex finds a city by case-insensitive name, or -1.
func (d *Document) CityIndex(name string) int {
	key := CityKey(name)
	for i, city := range d.Cities {
		if city.Key() == key {
			return i
		}
	}
	return -1
}

// Normalize replaces nil collections left by a sparse stored document.
func (d *Document) Normalize() {
	if d.Cities == nil {
		d.Cities = []City{}
	}
	if d.Quantities == nil {
		d.Quantities = map[string]QuantityRow{}
	}
	if d.Services == nil {
		d.Services = ServiceCatalog{}
	}
	for _, key := range ConfigKeys {
		m := key.Values(d)
		if *m == nil {
			*m = map[string]string{}
		}
	}
}

// RenameKeyed moves every per-city entry from oldName to newName.
func (d *Document) RenameKeyed(oldName, newName string) {
	if oldName == newName {
		return
	}
	if row, ok := d.Quantities[oldName]; ok {
		d.Quantities[newName] = row
		delete(d.Quantities, oldName)
	}
	for _, key := range ConfigKeys {
		m := *key.Values(d)
		if value, ok := m[oldName]; ok {
			m[newName] = value
			delete(m, oldName)
		}
	}
}

// PurgeKeyed drops every per-city entry stored under name.
func (d *Document) PurgeKeyed(name string) {
	delete(d.Quantities, name)
	for _, key := range ConfigKeys {
		delete(*key.Values(d), name)
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := *d
	out.Services = append(ServiceCatalog{}, d.Services...)
	out.Cities = append([]City{}, d.Cities...)
	out.Quantities = make(map[string]QuantityRow, len(d.Quantities))
	for name, row := range d.Quantities {
		out.Quantities[name] = append(QuantityRow{}, row...)
	}
	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for key, value := range d.Extra {
			out.Extra[key] = value
		}
	}
	for _, key := range ConfigKeys {
		src := *key.Values(d)
		dst := make(map[string]string, len(src))
		for name, value := range src {
			dst[name] = value
		}
		*key.Values(&out) = dst
	}
	return &out
}
