// Package profile reads user accounts and their medical information. Both
// are owned by the registration flow; this backend never writes them, and a
// missing document is a normal condition for consumers, not an error.
package profile

// User is the account document plus the self-reported medical fields
// captured at registration.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
	Conditions  string `json:"conditions"`
}

// MedicalInfo is the dedicated medical-information document, keyed by user.
type MedicalInfo struct {
	UserID      string `json:"userId"`
	BloodType   string `json:"bloodType"`
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
	Conditions  string `json:"conditions"`
}
