package model

// IntentLabel is one of the closed set of intents the classifier emits.
type IntentLabel string

const (
	IntentGreeting           IntentLabel = "greeting"
	IntentFarewell           IntentLabel = "farewell"
	IntentThanks             IntentLabel = "thanks"
	IntentPropertyInquiry    IntentLabel = "property_inquiry"
	IntentPriceInquiry       IntentLabel = "price_inquiry"
	IntentLocationInquiry    IntentLabel = "location_inquiry"
	IntentAgentInquiry       IntentLabel = "agent_inquiry"
	IntentContactRequest     IntentLabel = "contact_request"
	IntentAppointmentRequest IntentLabel = "appointment_request"
	IntentMortgageInquiry    IntentLabel = "mortgage_inquiry"
	IntentBuyingInquiry      IntentLabel = "buying_inquiry"
	IntentSellingInquiry     IntentLabel = "selling_inquiry"
	IntentRentalInquiry      IntentLabel = "rental_inquiry"
	IntentBotIdentity        IntentLabel = "bot_identity"
	IntentHelpRequest        IntentLabel = "help_request"
	IntentFeatureInquiry     IntentLabel = "feature_inquiry"
	IntentAddressInquiry     IntentLabel = "address_inquiry"
	IntentPropertyDetails    IntentLabel = "property_details"
	IntentCompanyInfo        IntentLabel = "company_info"
	IntentGeneralQuery       IntentLabel = "general_query"
)

// IntentLabels lists every label the classifier can return.
var IntentLabels = []IntentLabel{
	IntentGreeting, IntentFarewell, IntentThanks, IntentPropertyInquiry,
	IntentPriceInquiry, IntentLocationInquiry, IntentAgentInquiry,
	IntentContactRequest, IntentAppointmentRequest, IntentMortgageInquiry,
	IntentBuyingInquiry, IntentSellingInquiry, IntentRentalInquiry,
	IntentBotIdentity, IntentHelpRequest, IntentFeatureInquiry,
	IntentAddressInquiry, IntentPropertyDetails, IntentCompanyInfo,
	IntentGeneralQuery,
}

// Entity keys produced by extraction. Absent entities are omitted.
const (
	EntityPrice     = "price"
	EntityLocation  = "location"
	EntityBedrooms  = "bedrooms"
	EntityBathrooms = "bathrooms"
)

// ClassifiedIntent is the classifier output for one message.
type ClassifiedIntent struct {
	Label      IntentLabel    `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   map[string]any `json:"entities,omitempty"`
}
