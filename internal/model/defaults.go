package model

const (
	defaultServices = "Fiscalização com instalação de nova ligação,Fiscalização com religação de abastecimento," +
		"Fiscalização com remanejamento de cavalete,Fiscalização com subst./instal. HD," +
		"Fiscalização sem acesso ao cavalete,Fiscalização sem irregularidade," +
		"Fisclização com fraude - retirada bypass/lig clandestina,Fisclização com fraude - supressão ligação," +
		"Fisclização com fraude - suspensão ramal,Sondagem,Recomposição Pavimento"
	defaultOpex  = "28.3,161.89,28.3,26.9,28.33,185.15,180.42,168.08,99.43,124.01,71.25"
	defaultCapex = "285.22,161.89,225.94,17.91,26.9,28.33,185.15,180.42,168.08,99.43,124.01"
)

// NewDocument returns the first-run document.
func NewDocument() *Document {
	doc := &Document{
		Services:      ParseServiceCatalog(defaultServices),
		OpexMetro:     defaultOpex,
		CapexMetro:    defaultCapex,
		OpexInterior:  defaultOpex,
		CapexInterior: defaultCapex,
	}
	doc.Normalize()
	return doc
}
