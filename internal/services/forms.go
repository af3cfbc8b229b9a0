package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/models"
)

// emailPattern is intentionally loose; real validation happens on delivery
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FormNotifier is the notification fanout run after a successful insert.
// Every method is best-effort; outcomes are recorded on the submission row.
type FormNotifier interface {
	NotifyAdmin(ctx context.Context, formType string, fields map[string]string) error
	ConfirmUser(ctx context.Context, email, firstName, formType string) error
	PostAnalytics(ctx context.Context, event string, payload map[string]interface{})
}

// requiredField pairs a submitted value with its error label
type requiredField struct {
	name  string
	label string
	value string
}

// validateRequired trims and checks required fields, then the email format.
// Returns a field-to-message map, empty when the input is valid.
func validateRequired(fields []requiredField, email string) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs[f.name] = fmt.Sprintf("%s is required", f.label)
		}
	}
	if _, present := errs["email"]; !present && email != "" && !emailPattern.MatchString(strings.TrimSpace(email)) {
		errs["email"] = "Please enter a valid email address"
	}
	return errs
}

// TNRRequestInput is the submitted TNR request form
type TNRRequestInput struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Address               string `json:"address"`
	Address2              string `json:"address2"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zipCode"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	HowManyCats           string `json:"howManyCats"`
	AnyInjuredOrSick      string `json:"anyInjuredOrSick"`
	HowLongHadThem        string `json:"howLongHadThem"`
	AreTheyFixed          string `json:"areTheyFixed"`
	AdditionalInformation string `json:"additionalInformation"`
}

// Validate returns per-field validation errors, empty when valid
func (in *TNRRequestInput) Validate() map[string]string {
	return validateRequired([]requiredField{
		{"firstName", "First name", in.FirstName},
		{"lastName", "Last name", in.LastName},
		{"address", "Address", in.Address},
		{"city", "City", in.City},
		{"state", "State", in.State},
		{"zipCode", "Zip code", in.ZipCode},
		{"phone", "Phone", in.Phone},
		{"email", "Email", in.Email},
		{"howManyCats", "Number of cats", in.HowManyCats},
		{"anyInjuredOrSick", "Injured or sick", in.AnyInjuredOrSick},
	}, in.Email)
}

// AdoptionApplicationInput is the submitted adoption application form
type AdoptionApplicationInput struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zipCode"`
	AnimalName        string `json:"animalName"`
	AnimalType        string `json:"animalType"`
	HousingType       string `json:"housingType"`
	OwnOrRent         string `json:"ownOrRent"`
	NumberOfAdults    string `json:"numberOfAdults"`
	NumberOfChildren  string `json:"numberOfChildren"`
	AllAgreeable      string `json:"allAgreeable"`
	CurrentPets       string `json:"currentPets"`
	PreviousPets      string `json:"previousPets"`
	WhyAdopting       string `json:"whyAdopting"`
	PreviousSurrender string `json:"previousSurrender"`
}

// Validate returns per-field validation errors, empty when valid
func (in *AdoptionApplicationInput) Validate() map[string]string {
	return validateRequired([]requiredField{
		{"firstName", "First name", in.FirstName},
		{"lastName", "Last name", in.LastName},
		{"email", "Email", in.Email},
		{"phone", "Phone", in.Phone},
		{"address", "Address", in.Address},
		{"city", "City", in.City},
		{"state", "State", in.State},
		{"zipCode", "Zip code", in.ZipCode},
		{"animalType", "Animal type", in.AnimalType},
		{"housingType", "Housing type", in.HousingType},
		{"ownOrRent", "Own or rent", in.OwnOrRent},
		{"numberOfAdults", "Number of adults", in.NumberOfAdults},
		{"numberOfChildren", "Number of children", in.NumberOfChildren},
		{"allAgreeable", "Household agreement", in.AllAgreeable},
		{"currentPets", "Current pets", in.CurrentPets},
		{"previousPets", "Previous pets", in.PreviousPets},
		{"whyAdopting", "Reason for adopting", in.WhyAdopting},
		{"previousSurrender", "Previous surrender", in.PreviousSurrender},
	}, in.Email)
}

// ContactInput is the submitted contact form
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// Validate returns per-field validation errors, empty when valid
func (in *ContactInput) Validate() map[string]string {
	return validateRequired([]requiredField{
		{"name", "Name", in.Name},
		{"email", "Email", in.Email},
		{"message", "Message", in.Message},
	}, in.Email)
}

// SubmitTNRRequest validates, persists, and fans out a TNR request.
// Validation failures come back as a non-empty field map with no row written.
func SubmitTNRRequest(ctx context.Context, db *gorm.DB, notifier FormNotifier, in *TNRRequestInput) (*models.TNRRequest, map[string]string, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot submission: %w", err)
	}

	req := models.TNRRequest{
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Address:               strings.TrimSpace(in.Address),
		Address2:              strings.TrimSpace(in.Address2),
		City:                  strings.TrimSpace(in.City),
		State:                 strings.TrimSpace(in.State),
		ZipCode:               strings.TrimSpace(in.ZipCode),
		Phone:                 strings.TrimSpace(in.Phone),
		Email:                 strings.TrimSpace(in.Email),
		HowManyCats:           strings.TrimSpace(in.HowManyCats),
		AnyInjuredOrSick:      strings.TrimSpace(in.AnyInjuredOrSick),
		HowLongHadThem:        strings.TrimSpace(in.HowLongHadThem),
		AreTheyFixed:          strings.TrimSpace(in.AreTheyFixed),
		AdditionalInformation: strings.TrimSpace(in.AdditionalInformation),
		Payload:               payload,
	}
	if err := db.Create(&req).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save TNR request: %w", err)
	}

	adminFields := map[string]string{
		"Name":       req.FirstName + " " + req.LastName,
		"Email":      req.Email,
		"Phone":      req.Phone,
		"Address":    req.Address,
		"City":       req.City,
		"Cats":       req.HowManyCats,
		"Injured":    req.AnyInjuredOrSick,
		"Additional": req.AdditionalInformation,
	}
	runSubmissionFanout(ctx, db, notifier, fanout{
		table:     models.TNRRequest{}.TableName(),
		id:        req.ID,
		formType:  "tnr_request",
		email:     req.Email,
		firstName: req.FirstName,
		fields:    adminFields,
	})

	return &req, nil, nil
}

// SubmitAdoptionApplication validates, persists, and fans out an application
func SubmitAdoptionApplication(ctx context.Context, db *gorm.DB, notifier FormNotifier, in *AdoptionApplicationInput) (*models.AdoptionApplication, map[string]string, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot submission: %w", err)
	}

	app := models.AdoptionApplication{
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             strings.TrimSpace(in.Email),
		Phone:             strings.TrimSpace(in.Phone),
		Address:           strings.TrimSpace(in.Address),
		City:              strings.TrimSpace(in.City),
		State:             strings.TrimSpace(in.State),
		ZipCode:           strings.TrimSpace(in.ZipCode),
		AnimalName:        strings.TrimSpace(in.AnimalName),
		AnimalType:        strings.TrimSpace(in.AnimalType),
		HousingType:       strings.TrimSpace(in.HousingType),
		OwnOrRent:         strings.TrimSpace(in.OwnOrRent),
		NumberOfAdults:    strings.TrimSpace(in.NumberOfAdults),
		NumberOfChildren:  strings.TrimSpace(in.NumberOfChildren),
		AllAgreeable:      strings.TrimSpace(in.AllAgreeable),
		CurrentPets:       strings.TrimSpace(in.CurrentPets),
		PreviousPets:      strings.TrimSpace(in.PreviousPets),
		WhyAdopting:       strings.TrimSpace(in.WhyAdopting),
		PreviousSurrender: strings.TrimSpace(in.PreviousSurrender),
		Payload:           payload,
	}
	if err := db.Create(&app).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save adoption application: %w", err)
	}

	adminFields := map[string]string{
		"Name":        app.FirstName + " " + app.LastName,
		"Email":       app.Email,
		"Phone":       app.Phone,
		"Animal":      app.AnimalName,
		"Animal type": app.AnimalType,
		"Housing":     app.HousingType,
		"Why":         app.WhyAdopting,
	}
	runSubmissionFanout(ctx, db, notifier, fanout{
		table:     models.AdoptionApplication{}.TableName(),
		id:        app.ID,
		formType:  "adoption_application",
		email:     app.Email,
		firstName: app.FirstName,
		fields:    adminFields,
	})

	return &app, nil, nil
}

// SubmitContact validates and persists a contact message. Only the admin
// notification is sent; contact submitters get no confirmation email.
func SubmitContact(ctx context.Context, db *gorm.DB, notifier FormNotifier, in *ContactInput) (*models.ContactSubmission, map[string]string, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	sub := models.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: strings.TrimSpace(in.Company),
		Message: strings.TrimSpace(in.Message),
	}
	if err := db.Create(&sub).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save contact submission: %w", err)
	}

	if notifier != nil {
		if err := notifier.NotifyAdmin(ctx, "contact", map[string]string{
			"Name":    sub.Name,
			"Email":   sub.Email,
			"Company": sub.Company,
			"Message": sub.Message,
		}); err != nil {
			log.Printf("contact admin email failed for %s: %v", sub.ID, err)
		}
		notifier.PostAnalytics(ctx, "contact.submitted", map[string]interface{}{
			"id": sub.ID,
		})
	}

	return &sub, nil, nil
}

// fanout carries the notification context for one submission
type fanout struct {
	table     string
	id        string
	formType  string
	email     string
	firstName string
	fields    map[string]string
}

// runSubmissionFanout sends the admin and user emails plus the analytics
// event, then records outcomes on the submission row. Nothing here fails
// the request.
func runSubmissionFanout(ctx context.Context, db *gorm.DB, notifier FormNotifier, f fanout) {
	if notifier == nil {
		return
	}

	updates := map[string]interface{}{
		"admin_email_sent": true,
		"user_email_sent":  true,
	}

	if err := notifier.NotifyAdmin(ctx, f.formType, f.fields); err != nil {
		log.Printf("%s admin email failed for %s: %v", f.formType, f.id, err)
		updates["admin_email_sent"] = false
		updates["admin_email_error"] = err.Error()
	}
	if err := notifier.ConfirmUser(ctx, f.email, f.firstName, f.formType); err != nil {
		log.Printf("%s confirmation email failed for %s: %v", f.formType, f.id, err)
		updates["user_email_sent"] = false
		updates["user_email_error"] = err.Error()
	}

	if err := db.Table(f.table).Where("id = ?", f.id).Updates(updates).Error; err != nil {
		log.Printf("failed to record notification outcome for %s: %v", f.id, err)
	}

	notifier.PostAnalytics(ctx, f.formType+".submitted", map[string]interface{}{
		"id": f.id,
	})
}
