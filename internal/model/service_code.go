package model

// Код услуги. Фиксированный набор — произвольные строки не допускаются,
// каждая запись в заказе валидируется по этому перечню.
type ServiceCode string

const (
	ServicePhoto     ServiceCode = "photo"
	ServiceVideo     ServiceCode = "video"
	ServiceMusic     ServiceCode = "music"
	ServiceHost      ServiceCode = "host"
	ServiceCatering  ServiceCode = "catering"
	ServiceDecor     ServiceCode = "decor"
	ServiceTransport ServiceCode = "transport"
	ServiceOther     ServiceCode = "other"
)

var serviceCodes = map[ServiceCode]struct{}{
	ServicePhoto:     {},
	ServiceVideo:     {},
	ServiceMusic:     {},
	ServiceHost:      {},
	ServiceCatering:  {},
	ServiceDecor:     {},
	ServiceTransport: {},
	ServiceOther:     {},
}

// Valid сообщает, входит ли код в перечень допустимых услуг.
func (c ServiceCode) Valid() bool {
	_, ok := serviceCodes[c]
	return ok
}
