package storage

import (
	"encoding/json"
	"strings"

	"github.com/poiesic/concierge/core"
)

// WireRecord is the JSON shape the directory API and the local fallback
// file use. Spanish field names are canonical; English aliases are accepted.
type WireRecord struct {
	ID          core.ID    `json:"id,omitempty"`
	Name        string     `json:"nombre"`
	Category    string     `json:"categoria,omitempty"`
	Description string     `json:"descripcion,omitempty"`
	Profile     string     `json:"perfil,omitempty"`
	Location    string     `json:"ubicacion,omitempty"`
	Contact     string     `json:"contacto,omitempty"`
	Benefits    []string   `json:"beneficios,omitempty"`
	FAQ         []core.FAQ `json:"faq,omitempty"`
	Sponsored   bool       `json:"es_anunciante,omitempty"`
	Price       string     `json:"precio,omitempty"`
	Languages   string     `json:"idiomas,omitempty"`
}

// wireAliases carries the English spellings seen in older exports.
type wireAliases struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Short       string     `json:"descripcion_corta"`
	Profile     string     `json:"profile"`
	Location    string     `json:"location"`
	Contact     string     `json:"contact"`
	Benefits    benefits   `json:"benefits"`
	FAQs        []core.FAQ `json:"faqs"`
	Sponsored   bool       `json:"sponsored"`
	Price       string     `json:"price"`
	Languages   string     `json:"languages"`
}

// benefits accepts either a list or a single string.
type benefits []string

func (b *benefits) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*b = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one != "" {
		*b = []string{one}
	}
	return nil
}

// UnmarshalJSON decodes canonical fields and fills gaps from aliases.
func (w *WireRecord) UnmarshalJSON(data []byte) error {
	// wireFields drops the method set so decoding does not recurse.
	type wireFields WireRecord
	type plain struct {
		wireFields
		Benefits benefits `json:"beneficios"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var a wireAliases
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	*w = WireRecord(p.wireFields)
	w.Benefits = p.Benefits
	w.Name = first(w.Name, a.Name, a.Title)
	w.Category = first(w.Category, a.Category)
	w.Description = first(w.Description, a.Short, a.Description)
	w.Profile = first(w.Profile, a.Profile)
	w.Location = first(w.Location, a.Location)
	w.Contact = first(w.Contact, a.Contact)
	w.Price = first(w.Price, a.Price)
	w.Languages = first(w.Languages, a.Languages)
	if len(w.Benefits) == 0 {
		w.Benefits = a.Benefits
	}
	if len(w.FAQ) == 0 {
		w.FAQ = a.FAQs
	}
	w.Sponsored = w.Sponsored || a.Sponsored
	return nil
}

// Record converts the wire shape, stamping fallback as the category when
// the payload has none and deriving an ID when missing.
func (w WireRecord) Record(fallback core.Category) core.Record {
	category := core.Category(strings.TrimSpace(w.Category))
	if category == "" {
		category = fallback
	}
	r := core.Record{
		ID:          w.ID,
		Name:        strings.TrimSpace(w.Name),
		Category:    category,
		Description: w.Description,
		Profile:     w.Profile,
		Location:    w.Location,
		Contact:     w.Contact,
		Benefits:    append([]string(nil), w.Benefits...),
		FAQ:         append([]core.FAQ(nil), w.FAQ...),
		Sponsored:   w.Sponsored,
		Price:       w.Price,
		Languages:   w.Languages,
	}
	return EnsureID(r)
}

// FromRecord converts a record to its wire shape.
func FromRecord(r core.Record) WireRecord {
	return WireRecord{
		ID:          r.ID,
		Name:        r.Name,
		Category:    string(r.Category),
		Description: r.Description,
		Profile:     r.Profile,
		Location:    r.Location,
		Contact:     r.Contact,
		Benefits:    r.Benefits,
		FAQ:         r.FAQ,
		Sponsored:   r.Sponsored,
		Price:       r.Price,
		Languages:   r.Languages,
	}
}

// EnsureID fills a missing ID from the record's category and name.
func EnsureID(r core.Record) core.Record {
	if r.ID == 0 {
		r.ID = core.RecordID(r.Category, r.Name)
	}
	return r
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
