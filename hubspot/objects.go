// ABOUTME: HubSpot CRM object page decoding and normalization
// ABOUTME: Converts contact and company results into IntegrationItems
package hubspot

import (
	"fmt"
	"strings"

	"github.com/harperreed/crmlink/models"
)

// Resource names used for logging and the fetch log.
const (
	ResourceContacts  = "contacts"
	ResourceCompanies = "companies"
)

// crmObject is one entry of a CRM v3 objects page.
type crmObject struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// objectPage is the first page of a CRM v3 objects list. Paging links are ignored.
type objectPage struct {
	Results []crmObject `json:"results"`
}

// property returns a property as a string pointer, or nil when absent or null.
func (o crmObject) property(name string) *string {
	v, ok := o.Properties[name]
	if !ok || v == nil {
		return nil
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	default:
		s = fmt.Sprint(val)
	}
	return &s
}

// text returns a property value or "" when absent.
func (o crmObject) text(name string) string {
	if p := o.property(name); p != nil {
		return *p
	}
	return ""
}

// convertContact converts a CRM contact into an IntegrationItem.
func convertContact(o crmObject) models.IntegrationItem {
	return models.IntegrationItem{
		ID:    o.ID,
		Name:  o.text("firstname") + " " + o.text("lastname"),
		Type:  models.ItemContact,
		Email: o.property("email"),
		Phone: o.property("phone"),
	}
}

// convertCompany converts a CRM company into an IntegrationItem.
func convertCompany(o crmObject) models.IntegrationItem {
	return models.IntegrationItem{
		ID:       o.ID,
		Name:     o.text("name"),
		Type:     models.ItemCompany,
		Website:  o.property("website"),
		Industry: o.property("industry"),
	}
}

// DisplayName trims the separator left by a contact with missing name parts.
func DisplayName(item models.IntegrationItem) string {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return item.ID
	}
	return name
}
