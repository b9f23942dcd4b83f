package appointments

type Specialty string

const (
	SpecialtyCardiologist        Specialty = "Cardiologist"
	SpecialtyNeurologist         Specialty = "Neurologist"
	SpecialtyOphthalmologist     Specialty = "Ophthalmologist"
	SpecialtyRheumatologist      Specialty = "Rheumatologist"
	SpecialtyGeneralPractitioner Specialty = "General Practitioner"
	SpecialtyDermatologist       Specialty = "Dermatologist"
	SpecialtyOther               Specialty = "Other"
)

// Specialties en el orden en que los muestra el selector.
var Specialties = []Specialty{
	SpecialtyCardiologist,
	SpecialtyNeurologist,
	SpecialtyOphthalmologist,
	SpecialtyRheumatologist,
	SpecialtyGeneralPractitioner,
	SpecialtyDermatologist,
	SpecialtyOther,
}

func (s Specialty) Valid() bool {
	for _, v := range Specialties {
		if s == v {
			return true
		}
	}
	return false
}
