package routes

const (
	// Health
	Health = "/health"

	// Apartments
	Apartments            = "/api/v1/apartments"
	Apartment             = "/api/v1/apartments/{id}"
	ApartmentApplications = "/api/v1/apartments/{id}/applications"

	// Applications
	Applications      = "/api/v1/applications"
	Application       = "/api/v1/applications/{id}"
	ApplicationAccept = "/api/v1/applications/{id}/accept"

	// Tenancies
	Tenancies          = "/api/v1/tenancies"
	Tenancy            = "/api/v1/tenancies/{id}"
	TenancyMaintenance = "/api/v1/tenancies/{id}/maintenance"
	TenancyPayments    = "/api/v1/tenancies/{id}/payments"
)
