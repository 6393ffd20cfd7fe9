package sovren

import (
	"encoding/json"
	"fmt"
)

// Result is the reshaped résumé returned to callers.
type Result struct {
	Contact    Contact      `json:"contact"`
	Employment []Employment `json:"employment"`
	Education  []Education  `json:"education"`
	Code       int          `json:"-"`
}

type Contact struct {
	FirstName         string  `json:"first_name"`
	MiddleName        string  `json:"middle_name"`
	LastName          string  `json:"last_name"`
	AristocraticTitle string  `json:"aristocratic_title"`
	FormOfAddress     string  `json:"form_of_address"`
	Generation        string  `json:"generation"`
	Qualification     string  `json:"qualification"`
	AddressLine1      string  `json:"address_line_1"`
	AddressLine2      string  `json:"address_line_2"`
	City              *string `json:"city"`
	State             *string `json:"state"`
	PostalCode        *string `json:"postal_code"`
	Country           *string `json:"country"`
	HomePhone         *string `json:"home_phone"`
	MobilePhone       *string `json:"mobile_phone"`
	Website           *string `json:"website"`
	Email             *string `json:"email"`
}

type Employment struct {
	Employer        *string `json:"employer"`
	Division        *string `json:"division"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	Country         *string `json:"country"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	CurrentEmployer *string `json:"current_employer"`
}

type Education struct {
	SchoolName *string `json:"school_name"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	DegreeType *string `json:"degree_type"`
	DegreeName *string `json:"degree_name"`
	Major      *string `json:"major"`
	Minor      *string `json:"minor"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	GPA        *string `json:"gpa"`
	GPAOutOf   *string `json:"gpa_out_of"`
	Graduated  *string `json:"graduated"`
}

// textList accepts either a JSON string or an array of strings.
type textList []string

func (t *textList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*t = textList{one}
	return nil
}

func (t textList) first() *string {
	if len(t) == 0 {
		return nil
	}
	v := t[0]
	return &v
}

type affix struct {
	Type string `json:"@type"`
	Text string `json:"#text"`
}

type telephone struct {
	FormattedNumber *string `json:"FormattedNumber"`
}

type datePart struct {
	Year      *string `json:"Year"`
	YearMonth *string `json:"YearMonth"`
}

func (d *datePart) value() *string {
	if d == nil {
		return nil
	}
	if d.Year != nil {
		return d.Year
	}
	return d.YearMonth
}

type measureValue struct {
	StringValue *string `json:"StringValue"`
}

type contactSection struct {
	PersonName struct {
		GivenName  string  `json:"GivenName"`
		MiddleName string  `json:"MiddleName"`
		FamilyName string  `json:"FamilyName"`
		Affix      []affix `json:"Affix"`
	} `json:"PersonName"`
	ContactMethod []struct {
		PostalAddress *struct {
			CountryCode     *string  `json:"CountryCode"`
			PostalCode      *string  `json:"PostalCode"`
			Municipality    *string  `json:"Municipality"`
			Region          textList `json:"Region"`
			DeliveryAddress *struct {
				AddressLine textList `json:"AddressLine"`
			} `json:"DeliveryAddress"`
		} `json:"PostalAddress"`
		Mobile               *telephone `json:"Mobile"`
		Telephone            *telephone `json:"Telephone"`
		InternetEmailAddress *string    `json:"InternetEmailAddress"`
		InternetWebAddress   *string    `json:"InternetWebAddress"`
	} `json:"ContactMethod"`
}

type employmentSection struct {
	EmployerOrg []struct {
		EmployerOrgName *string `json:"EmployerOrgName"`
		OrgInfo         *struct {
			PositionLocation []struct {
				Municipality *string  `json:"Municipality"`
				Region       textList `json:"Region"`
				CountryCode  *string  `json:"CountryCode"`
			} `json:"PositionLocation"`
		} `json:"OrgInfo"`
		PositionHistory []struct {
			OrgName *struct {
				OrganizationName *string `json:"OrganizationName"`
			} `json:"OrgName"`
			Description     *string   `json:"Description"`
			Title           *string   `json:"Title"`
			StartDate       *datePart `json:"StartDate"`
			EndDate         *datePart `json:"EndDate"`
			CurrentEmployer *string   `json:"@currentEmployer"`
		} `json:"PositionHistory"`
	} `json:"EmployerOrg"`
}

type educationSection struct {
	SchoolOrInstitution []struct {
		School []struct {
			SchoolName *string `json:"SchoolName"`
		} `json:"School"`
		PostalAddress *struct {
			Municipality *string  `json:"Municipality"`
			Region       textList `json:"Region"`
			CountryCode  *string  `json:"CountryCode"`
		} `json:"PostalAddress"`
		Degree []struct {
			DegreeType  *string `json:"@degreeType"`
			DegreeName  *string `json:"DegreeName"`
			DegreeMajor []struct {
				Name textList `json:"Name"`
			} `json:"DegreeMajor"`
			DegreeMinor []struct {
				Name textList `json:"Name"`
			} `json:"DegreeMinor"`
			DatesOfAttendance []struct {
				StartDate *datePart `json:"StartDate"`
				EndDate   *datePart `json:"EndDate"`
			} `json:"DatesOfAttendance"`
			DegreeDate    *datePart `json:"DegreeDate"`
			DegreeMeasure *struct {
				EducationalMeasure *struct {
					MeasureValue         *measureValue `json:"MeasureValue"`
					HighestPossibleValue *measureValue `json:"HighestPossibleValue"`
				} `json:"EducationalMeasure"`
			} `json:"DegreeMeasure"`
		} `json:"Degree"`
	} `json:"SchoolOrInstitution"`
}

// Each section decodes on its own so a shape surprise in one does not lose the others.
type contactDocument struct {
	Resume struct {
		Structured struct {
			ContactInfo contactSection `json:"ContactInfo"`
		} `json:"StructuredXMLResume"`
	} `json:"Resume"`
}

type employmentDocument struct {
	Resume struct {
		Structured struct {
			EmploymentHistory employmentSection `json:"EmploymentHistory"`
		} `json:"StructuredXMLResume"`
	} `json:"Resume"`
}

type educationDocument struct {
	Resume struct {
		Structured struct {
			EducationHistory educationSection `json:"EducationHistory"`
		} `json:"StructuredXMLResume"`
	} `json:"Resume"`
}

// Reshape decodes a ParsedDocument string into contact, employment and education.
// The document must be JSON; sections that fail to decode come back empty.
func Reshape(parsedDocument string) (Result, error) {
	raw := []byte(parsedDocument)
	if !json.Valid(raw) {
		return Result{}, fmt.Errorf("parsed document is not valid json")
	}

	result := Result{Employment: []Employment{}, Education: []Education{}}

	var contact contactDocument
	if err := json.Unmarshal(raw, &contact); err == nil {
		result.Contact = reshapeContact(contact.Resume.Structured.ContactInfo)
	}
	var employment employmentDocument
	if err := json.Unmarshal(raw, &employment); err == nil {
		result.Employment = reshapeEmployment(employment.Resume.Structured.EmploymentHistory)
	}
	var education educationDocument
	if err := json.Unmarshal(raw, &education); err == nil {
		result.Education = reshapeEducation(education.Resume.Structured.EducationHistory)
	}
	return result, nil
}

func reshapeContact(info contactSection) Contact {
	out := Contact{
		FirstName:  info.PersonName.GivenName,
		MiddleName: info.PersonName.MiddleName,
		LastName:   info.PersonName.FamilyName,
	}

	for _, a := range info.PersonName.Affix {
		switch a.Type {
		case "aristocraticTitle":
			out.AristocraticTitle = a.Text
		case "formOfAddress":
			out.FormOfAddress = a.Text
		case "generation":
			out.Generation = a.Text
		case "qualification":
			out.Qualification = a.Text
		}
	}

	for _, method := range info.ContactMethod {
		if addr := method.PostalAddress; addr != nil {
			out.City = addr.Municipality
			out.State = addr.Region.first()
			out.PostalCode = addr.PostalCode
			out.Country = addr.CountryCode
			if addr.DeliveryAddress != nil {
				lines := addr.DeliveryAddress.AddressLine
				if len(lines) > 0 {
					out.AddressLine1 = lines[0]
				}
				if len(lines) > 1 {
					out.AddressLine2 = lines[len(lines)-1]
				}
			}
		}
		if method.Mobile != nil {
			out.MobilePhone = method.Mobile.FormattedNumber
		}
		if method.Telephone != nil {
			out.HomePhone = method.Telephone.FormattedNumber
		}
		if method.InternetWebAddress != nil {
			out.Website = method.InternetWebAddress
		}
		if method.InternetEmailAddress != nil {
			out.Email = method.InternetEmailAddress
		}
	}
	return out
}

func reshapeEmployment(history employmentSection) []Employment {
	out := make([]Employment, len(history.EmployerOrg))
	for i, employer := range history.EmployerOrg {
		entry := &out[i]
		entry.Employer = employer.EmployerOrgName

		if employer.OrgInfo != nil && len(employer.OrgInfo.PositionLocation) > 0 {
			loc := employer.OrgInfo.PositionLocation[0]
			entry.City = loc.Municipality
			entry.State = loc.Region.first()
			entry.Country = loc.CountryCode
		}

		if len(employer.PositionHistory) == 0 {
			continue
		}
		position := employer.PositionHistory[0]
		if position.OrgName != nil && position.OrgName.OrganizationName != nil &&
			!sameText(position.OrgName.OrganizationName, employer.EmployerOrgName) {
			entry.Division = position.OrgName.OrganizationName
		}
		entry.Title = position.Title
		entry.Description = position.Description
		entry.StartDate = position.StartDate.value()
		entry.EndDate = position.EndDate.value()
		if position.CurrentEmployer != nil {
			current := "true"
			entry.CurrentEmployer = &current
		}
	}
	return out
}

func reshapeEducation(history educationSection) []Education {
	out := make([]Education, len(history.SchoolOrInstitution))
	for i, school := range history.SchoolOrInstitution {
		entry := &out[i]
		if len(school.School) > 0 {
			entry.SchoolName = school.School[0].SchoolName
		}
		if addr := school.PostalAddress; addr != nil {
			entry.City = addr.Municipality
			entry.State = addr.Region.first()
			entry.Country = addr.CountryCode
		}

		if len(school.Degree) == 0 {
			continue
		}
		degree := school.Degree[0]
		entry.DegreeType = degree.DegreeType
		entry.DegreeName = degree.DegreeName
		if len(degree.DegreeMajor) > 0 {
			entry.Major = degree.DegreeMajor[0].Name.first()
		}
		if len(degree.DegreeMinor) > 0 {
			entry.Minor = degree.DegreeMinor[0].Name.first()
		}
		if m := degree.DegreeMeasure; m != nil && m.EducationalMeasure != nil {
			if v := m.EducationalMeasure.MeasureValue; v != nil {
				entry.GPA = v.StringValue
			}
			if v := m.EducationalMeasure.HighestPossibleValue; v != nil {
				entry.GPAOutOf = v.StringValue
			}
		}
		if len(degree.DatesOfAttendance) > 0 {
			entry.StartDate = degree.DatesOfAttendance[0].StartDate.value()
			entry.EndDate = degree.DatesOfAttendance[0].EndDate.value()
		}
		entry.Graduated = degree.DegreeDate.value()
	}
	return out
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
