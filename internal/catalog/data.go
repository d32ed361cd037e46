package catalog

import (
	"fmt"

	"nagarik-sewa/internal/models"
)

const (
	PokharaMetropolitanCity = "Pokhara Metropolitan City"
	OtherCities             = "Other cities/areas"
	pokharaWardCount        = 33
)

var provinceDistricts = []struct {
	province  string
	districts []string
}{
	{"Province 1", []string{
		"Bhojpur", "Dhankuta", "Ilam", "Jhapa", "Khotang", "Morang", "Okhaldhunga", "Panchthar",
		"Sankhuwasabha", "Solukhumbu", "Sunsari", "Taplejung", "Terhathum", "Udayapur",
	}},
	{"Madhesh Province", []string{
		"Bara", "Dhanusha", "Mahottari", "Parsa", "Rautahat", "Saptari", "Sarlahi", "Siraha",
	}},
	{"Bagmati Province", []string{
		"Bhaktapur", "Chitwan", "Dhading", "Dolakha", "Kathmandu", "Kavrepalanchok", "Lalitpur",
		"Makwanpur", "Nuwakot", "Ramechhap", "Rasuwa", "Sindhuli", "Sindhupalchok",
	}},
	{"Gandaki Province", []string{
		"Baglung", "Gorkha", "Kaski", "Lamjung", "Manang", "Mustang", "Myagdi", "Nawalparasi East",
		"Parbat", "Syangja", "Tanahun",
	}},
	{"Lumbini Province", []string{
		"Arghakhanchi", "Banke", "Bardiya", "Dang", "Gulmi", "Kapilvastu", "Nawalparasi West",
		"Palpa", "Parasi", "Pyuthan", "Rolpa", "Rukum East",
	}},
	{"Karnali Province", []string{
		"Dailekh", "Dolpa", "Humla", "Jajarkot", "Jumla", "Kalikot", "Mugu", "Rukum West",
		"Salyan", "Surkhet",
	}},
	{"Sudurpashchim Province", []string{
		"Achham", "Baitadi", "Bajhang", "Bajura", "Dadeldhura", "Darchula", "Doti", "Kailali",
		"Kanchanpur",
	}},
}

var serviceEntries = []ServiceEntry{
	{
		Type:        "house-registration",
		Level:       models.LevelDistrict,
		OfficeName:  "Kaski District Land Revenue Office",
		Description: "Issues property ownership (lalpurja) and house/land registration",
	},
	{
		Type:        "land-registration",
		Level:       models.LevelDistrict,
		OfficeName:  "Kaski District Land Revenue Office",
		Description: "Handles land records, transfers and related services",
	},
	{
		Type:        "national-id",
		Level:       models.LevelLocal,
		OfficeName:  "Pokhara Ward Office",
		Description: "National ID data collection and enrollment at ward level",
		NeedsWard:   true,
	},
	{
		Type:        "passport",
		Level:       models.LevelDistrict,
		OfficeName:  "Kaski DAO (Passport Section)",
		Description: "Passport applications processed through District Administration Office",
	},
	{
		Type:        "drivers-license",
		Level:       models.LevelDistrict,
		OfficeName:  "Kaski Transport Management Office",
		Description: "Driver's license issuance and biometric tests",
	},
	{
		Type:        "birth-certificate",
		Level:       models.LevelLocal,
		OfficeName:  "Pokhara Ward Office",
		Description: "Birth event registration at ward level",
		NeedsWard:   true,
	},
	{
		Type:        "marriage-certificate",
		Level:       models.LevelLocal,
		OfficeName:  "Pokhara Ward Office",
		Description: "Marriage registration (bihe darta) at ward level",
		NeedsWard:   true,
	},
}

var genericStages = []Stage{
	{Title: "Application Submission", Description: "Documents submitted to Ward Office", Office: "Ward Office"},
	{Title: "Ward Office Verification", Description: "Ward officer verifies documents", Office: "Ward Officer"},
	{Title: "Municipality Review", Description: "Municipal office reviews application", Office: "Municipality"},
	{Title: "Document Preparation", Description: "Certificate/document being prepared", Office: "Processing Unit"},
	{Title: "Ready for Collection", Description: "Document ready at Ward Office", Office: "Ward Office"},
}

var serviceStages = map[string][]Stage{
	"national-id": {
		{Title: "Application Submission", Description: "Documents submitted to Ward Office", Office: "Ward Office"},
		{Title: "Ward Office Verification", Description: "Ward officer verifies documents", Office: "Ward Officer"},
		{Title: "Biometric Data Collection", Description: "Fingerprints and photo captured", Office: "Ward Office"},
		{Title: "District Office Processing", Description: "District Administration Office processes", Office: "District Office (DAO)"},
		{Title: "ID Card Printing", Description: "National ID card being printed", Office: "DoNIDCR"},
		{Title: "Ready for Collection", Description: "ID card ready at Ward Office", Office: "Ward Office"},
	},
	"birth-certificate": {
		{Title: "Application Submission", Description: "Birth registration form submitted", Office: "Ward Office"},
		{Title: "Ward Office Verification", Description: "Ward officer verifies birth details", Office: "Ward Officer"},
		{Title: "Municipality Registration", Description: "Birth registered in municipal records", Office: "Municipality"},
		{Title: "Certificate Issuance", Description: "Birth certificate being prepared", Office: "Municipality"},
		{Title: "Ready for Collection", Description: "Certificate ready at Ward Office", Office: "Ward Office"},
	},
	"marriage-certificate": {
		{Title: "Application Submission", Description: "Marriage registration form submitted", Office: "Ward Office"},
		{Title: "Ward Office Verification", Description: "Ward officer verifies documents & witnesses", Office: "Ward Officer"},
		{Title: "Municipality Registration", Description: "Marriage registered in municipal records", Office: "Municipality"},
		{Title: "Certificate Issuance", Description: "Marriage certificate being prepared", Office: "Municipality"},
		{Title: "Ready for Collection", Description: "Certificate ready at Ward Office", Office: "Ward Office"},
	},
}

// BuiltinDefinition is the Pokhara pilot catalog.
func BuiltinDefinition() Definition {
	def := Definition{
		Version:       "1.0.0",
		Cities:        map[string][]string{},
		Wards:         map[string][]string{},
		LiveCities:    []string{PokharaMetropolitanCity},
		Services:      append([]ServiceEntry(nil), serviceEntries...),
		DefaultStages: append([]Stage(nil), genericStages...),
		Stages:        map[string][]Stage{},
	}

	for _, pd := range provinceDistricts {
		def.Provinces = append(def.Provinces, ProvinceEntry{Name: pd.province, Districts: append([]string(nil), pd.districts...)})
		for _, d := range pd.districts {
			def.Cities[d] = []string{OtherCities}
		}
	}
	def.Cities["Kaski"] = []string{PokharaMetropolitanCity, OtherCities}

	wards := make([]string, 0, pokharaWardCount)
	for i := 1; i <= pokharaWardCount; i++ {
		wards = append(wards, fmt.Sprintf("Ward %d", i))
	}
	def.Wards[PokharaMetropolitanCity] = wards

	for service, stages := range serviceStages {
		def.Stages[service] = append([]Stage(nil), stages...)
	}
	return def
}
