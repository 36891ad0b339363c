package models

// Field keys of a ProjectRecord, in export order.
const (
	FieldProjectName    = "project_name"
	FieldPromoterName   = "promoter_name"
	FieldAddress        = "address"
	FieldProjectType    = "project_type"
	FieldStartedFrom    = "started_from"
	FieldPossessionBy   = "possession_by"
	FieldUnitsAvailable = "units_available"
	FieldReraNo         = "rera_no"
	FieldContactInfo    = "contact_info"

	// FieldRawHTML is the diagnostic excerpt. It never reaches an export.
	FieldRawHTML = "raw_html"
)

// Columns is the fixed export column order.
var Columns = []string{
	FieldProjectName,
	FieldPromoterName,
	FieldAddress,
	FieldProjectType,
	FieldStartedFrom,
	FieldPossessionBy,
	FieldUnitsAvailable,
	FieldReraNo,
	FieldContactInfo,
}

// ProjectRecord is one extracted project listing. Every field is always
// present; a field that could not be extracted is the empty string.
type ProjectRecord struct {
	ProjectName    string `json:"project_name"`
	PromoterName   string `json:"promoter_name"`
	Address        string `json:"address"`
	ProjectType    string `json:"project_type"`
	StartedFrom    string `json:"started_from"`
	PossessionBy   string `json:"possession_by"`
	UnitsAvailable string `json:"units_available"`
	ReraNo         string `json:"rera_no"`
	ContactInfo    string `json:"contact_info"`
	RawHTML        string `json:"-"`
}

// Field returns the value stored under key and whether key names a field.
func (r *ProjectRecord) Field(key string) (string, bool) {
	if p := r.fieldPtr(key); p != nil {
		return *p, true
	}
	return "", false
}

// SetField stores value under key. Unknown keys are ignored.
func (r *ProjectRecord) SetField(key, value string) bool {
	p := r.fieldPtr(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (r *ProjectRecord) fieldPtr(key string) *string {
	switch key {
	case FieldProjectName:
		return &r.ProjectName
	case FieldPromoterName:
		return &r.PromoterName
	case FieldAddress:
		return &r.Address
	case FieldProjectType:
		return &r.ProjectType
	case FieldStartedFrom:
		return &r.StartedFrom
	case FieldPossessionBy:
		return &r.PossessionBy
	case FieldUnitsAvailable:
		return &r.UnitsAvailable
	case FieldReraNo:
		return &r.ReraNo
	case FieldContactInfo:
		return &r.ContactInfo
	case FieldRawHTML:
		return &r.RawHTML
	}
	return nil
}
