package database

import (
	"context"
	"fmt"

	"govportal/internal/common/logger"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		nic VARCHAR(12) UNIQUE NOT NULL,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100),
		phone VARCHAR(15),
		language VARCHAR(10) NOT NULL DEFAULT 'english',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		category VARCHAR(100) NOT NULL,
		name VARCHAR(200) UNIQUE NOT NULL,
		description TEXT,
		requirements TEXT,
		fees NUMERIC(10,2),
		processing_time VARCHAR(100),
		department VARCHAR(100),
		department_contact VARCHAR(15),
		department_email VARCHAR(100),
		form_fields JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS offices (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) UNIQUE NOT NULL,
		department VARCHAR(100) NOT NULL,
		address TEXT,
		city VARCHAR(100),
		district VARCHAR(100),
		phone VARCHAR(15),
		email VARCHAR(100),
		latitude NUMERIC(10,8),
		longitude NUMERIC(11,8),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS applications (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT REFERENCES users(id),
		service_id BIGINT REFERENCES services(id),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		reference_number VARCHAR(30) UNIQUE,
		form_data JSONB,
		documents TEXT,
		department_notes TEXT,
		appointment_date TIMESTAMP,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS complaints (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT REFERENCES users(id),
		subject VARCHAR(200) NOT NULL,
		description TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'open',
		assigned_officer VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT REFERENCES users(id),
		session_id VARCHAR(100) UNIQUE,
		language VARCHAR(10),
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_applications_user_id ON applications(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints(user_id)`,
}

type seedService struct {
	category          string
	name              string
	description       string
	requirements      string
	fees              float64
	processingTime    string
	department        string
	departmentContact string
	departmentEmail   string
	formFields        string
}

var seedServices = []seedService{
	{
		category:          "Documents & Certificates",
		name:              "NIC Renewal",
		description:       "Renewal of National Identity Card",
		requirements:      "Old NIC, Passport size photos, Application form",
		fees:              500.00,
		processingTime:    "7-10 working days",
		department:        "Department of Registration of Persons",
		departmentContact: "+94-11-2345678",
		departmentEmail:   "nic@dorp.gov.lk",
		formFields: `{
			"personal_info": ["full_name", "nic_number", "date_of_birth", "address", "contact_number"],
			"documents": ["old_nic", "passport_photos", "application_form"],
			"additional_info": ["reason_for_renewal", "emergency_contact"]
		}`,
	},
	{
		category:          "Documents & Certificates",
		name:              "Birth Certificate",
		description:       "Obtain birth certificate",
		requirements:      "Parents ID, Hospital records, Application form",
		fees:              200.00,
		processingTime:    "3-5 working days",
		department:        "Department of Registration of Persons",
		departmentContact: "+94-11-2345678",
		departmentEmail:   "birth@dorp.gov.lk",
		formFields: `{
			"child_info": ["child_full_name", "date_of_birth", "place_of_birth", "gender"],
			"parent_info": ["father_name", "father_nic", "mother_name", "mother_nic"],
			"documents": ["hospital_records", "parents_id", "application_form"],
			"additional_info": ["marital_status_parents", "witness_details"]
		}`,
	},
	{
		category:          "Benefits & Subsidies",
		name:              "Samurdhi Benefits",
		description:       "Apply for Samurdhi welfare benefits",
		requirements:      "NIC, Income certificate, Application form",
		fees:              0.00,
		processingTime:    "15-20 working days",
		department:        "Ministry of Social Welfare",
		departmentContact: "+94-11-3456789",
		departmentEmail:   "samurdhi@socialwelfare.gov.lk",
		formFields: `{
			"personal_info": ["full_name", "nic_number", "date_of_birth", "address", "contact_number"],
			"family_info": ["family_size", "children_count", "elderly_count", "disabled_members"],
			"financial_info": ["monthly_income", "income_source", "expenses", "assets"],
			"documents": ["nic", "income_certificate", "family_photos", "application_form"],
			"additional_info": ["special_circumstances", "previous_benefits"]
		}`,
	},
	{
		category:          "Business Services",
		name:              "Business Registration",
		description:       "Register new business",
		requirements:      "NIC, Business plan, Application form",
		fees:              2500.00,
		processingTime:    "10-15 working days",
		department:        "Department of Registrar of Companies",
		departmentContact: "+94-11-4567890",
		departmentEmail:   "business@roc.gov.lk",
		formFields: `{
			"business_info": ["business_name", "business_type", "business_address", "business_phone", "business_email"],
			"owner_info": ["owner_name", "owner_nic", "owner_address", "owner_contact"],
			"business_details": ["business_activities", "employee_count", "startup_capital", "expected_revenue"],
			"documents": ["nic", "business_plan", "financial_statements", "premises_agreement", "application_form"],
			"additional_info": ["partnership_details", "shareholder_info", "tax_registration"]
		}`,
	},
	{
		category:          "Healthcare Services",
		name:              "Health Insurance",
		description:       "Apply for government health insurance",
		requirements:      "NIC, Medical certificate, Application form",
		fees:              1000.00,
		processingTime:    "5-7 working days",
		department:        "Ministry of Health",
		departmentContact: "+94-11-5678901",
		departmentEmail:   "health@health.gov.lk",
		formFields: `{
			"personal_info": ["full_name", "nic_number", "date_of_birth", "address", "contact_number"],
			"health_info": ["current_health_status", "existing_conditions", "medications", "allergies"],
			"family_health": ["family_medical_history", "genetic_conditions"],
			"documents": ["nic", "medical_certificate", "health_records", "application_form"],
			"additional_info": ["preferred_hospital", "emergency_contact", "dependents"]
		}`,
	},
	{
		category:          "Documents & Certificates",
		name:              "Passport Application",
		description:       "Apply for new passport or renewal",
		requirements:      "NIC, Birth certificate, Photos, Application form",
		fees:              1500.00,
		processingTime:    "10-15 working days",
		department:        "Department of Immigration and Emigration",
		departmentContact: "+94-11-6789012",
		departmentEmail:   "passport@immigration.gov.lk",
		formFields: `{
			"personal_info": ["full_name", "nic_number", "date_of_birth", "place_of_birth", "address", "contact_number"],
			"travel_info": ["purpose_of_travel", "destination_countries", "planned_dates", "previous_passports"],
			"documents": ["nic", "birth_certificate", "passport_photos", "application_form"],
			"additional_info": ["emergency_contact", "employment_details", "sponsor_info"]
		}`,
	},
	{
		category:          "Benefits & Subsidies",
		name:              "Agricultural Subsidies",
		description:       "Apply for agricultural subsidies and support",
		requirements:      "NIC, Land ownership documents, Crop details, Application form",
		fees:              0.00,
		processingTime:    "20-25 working days",
		department:        "Ministry of Agriculture",
		departmentContact: "+94-11-7890123",
		departmentEmail:   "agriculture@agri.gov.lk",
		formFields: `{
			"personal_info": ["full_name", "nic_number", "date_of_birth", "address", "contact_number"],
			"agricultural_info": ["land_size", "crop_types", "irrigation_facilities", "farming_experience"],
			"financial_info": ["annual_income", "loan_details", "previous_subsidies"],
			"documents": ["nic", "land_documents", "crop_records", "income_certificate", "application_form"],
			"additional_info": ["special_requirements", "cooperative_membership", "training_needs"]
		}`,
	},
}

type seedOffice struct {
	name       string
	department string
	address    string
	city       string
	district   string
	phone      string
	email      string
	latitude   float64
	longitude  float64
}

var seedOffices = []seedOffice{
	{
		name:       "Colombo District Secretariat",
		department: "General Administration",
		address:    "No. 123, Galle Road, Colombo 03",
		city:       "Colombo",
		district:   "Colombo",
		phone:      "+94-11-2345678",
		email:      "colombo@district.gov.lk",
		latitude:   6.9271,
		longitude:  79.8612,
	},
	{
		name:       "Kandy District Secretariat",
		department: "General Administration",
		address:    "No. 456, Peradeniya Road, Kandy",
		city:       "Kandy",
		district:   "Kandy",
		phone:      "+94-81-2345678",
		email:      "kandy@district.gov.lk",
		latitude:   7.2906,
		longitude:  80.6337,
	},
	{
		name:       "Jaffna District Secretariat",
		department: "General Administration",
		address:    "No. 789, Kandy Road, Jaffna",
		city:       "Jaffna",
		district:   "Jaffna",
		phone:      "+94-21-2345678",
		email:      "jaffna@district.gov.lk",
		latitude:   9.6615,
		longitude:  80.0255,
	},
}

// Migrate creates all tables and indexes, then seeds the catalog data.
// Both steps are idempotent and safe to run on every startup.
func Migrate(ctx context.Context, client *PostgresClient, log logger.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := client.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}

	if err := seedCatalog(ctx, client); err != nil {
		return err
	}

	log.Info("Database schema ready", map[string]interface{}{
		"tables": 6,
	})
	return nil
}

func seedCatalog(ctx context.Context, client *PostgresClient) error {
	const insertService = `
		INSERT INTO services (category, name, description, requirements, fees,
			processing_time, department, department_contact, department_email, form_fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name) DO NOTHING`

	for _, s := range seedServices {
		_, err := client.Exec(ctx, insertService,
			s.category, s.name, s.description, s.requirements, s.fees,
			s.processingTime, s.department, s.departmentContact, s.departmentEmail, s.formFields)
		if err != nil {
			return fmt.Errorf("failed to seed service %q: %w", s.name, err)
		}
	}

	const insertOffice = `
		INSERT INTO offices (name, department, address, city, district, phone, email, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING`

	for _, o := range seedOffices {
		_, err := client.Exec(ctx, insertOffice,
			o.name, o.department, o.address, o.city, o.district, o.phone, o.email, o.latitude, o.longitude)
		if err != nil {
			return fmt.Errorf("failed to seed office %q: %w", o.name, err)
		}
	}

	return nil
}
