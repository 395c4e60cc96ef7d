package studio

import (
	"os"
	"slices"
)

const (
	ServiceName = "yoga-studio-management-api"
	PackageName = "github.com/Roisin-M/Yoga-Studio-Mangement-API"

	DefaultServiceConfigurationFileName = "/etc/yoga-studio/settings.yml"
	SettingsFileEnv                     = "YOGA_STUDIO_SETTINGS"
)

// BuildRevision is set at link time.
var BuildRevision = ""

// YogaSpeciality is a style of yoga an instructor teaches.
type YogaSpeciality string

const (
	SpecialityHatha       YogaSpeciality = "Hatha"
	SpecialityVinyasa     YogaSpeciality = "Vinyasa"
	SpecialityAshtanga    YogaSpeciality = "Ashtanga"
	SpecialityBikram      YogaSpeciality = "Bikram"
	SpecialityIyengar     YogaSpeciality = "Iyengar"
	SpecialityKundalini   YogaSpeciality = "Kundalini"
	SpecialityYin         YogaSpeciality = "Yin"
	SpecialityRestorative YogaSpeciality = "Restorative"
	SpecialityPower       YogaSpeciality = "Power Yoga"
	SpecialityJivamukti   YogaSpeciality = "Jivamukti"
	SpecialityAnusara     YogaSpeciality = "Anusara"
	SpecialitySivananda   YogaSpeciality = "Sivananda"
	SpecialityPrenatal    YogaSpeciality = "Prenatal"
	SpecialityAerial      YogaSpeciality = "Aerial Yoga"
	SpecialityAcroYoga    YogaSpeciality = "AcroYoga"
	SpecialityChair       YogaSpeciality = "Chair Yoga"
	SpecialityViniyoga    YogaSpeciality = "Viniyoga"
	SpecialityNidra       YogaSpeciality = "Yoga Nidra"
	SpecialityIntegral    YogaSpeciality = "Integral Yoga"
	SpecialityTantra      YogaSpeciality = "Tantra Yoga"
)

// YogaSpecialities is the closed set of specialities. Class types are
// drawn from the same set.
var YogaSpecialities = []YogaSpeciality{
	SpecialityHatha,
	SpecialityVinyasa,
	SpecialityAshtanga,
	SpecialityBikram,
	SpecialityIyengar,
	SpecialityKundalini,
	SpecialityYin,
	SpecialityRestorative,
	SpecialityPower,
	SpecialityJivamukti,
	SpecialityAnusara,
	SpecialitySivananda,
	SpecialityPrenatal,
	SpecialityAerial,
	SpecialityAcroYoga,
	SpecialityChair,
	SpecialityViniyoga,
	SpecialityNidra,
	SpecialityIntegral,
	SpecialityTantra,
}

type ClassLevel string

const (
	LevelBeginner     ClassLevel = "Beginner"
	LevelIntermediate ClassLevel = "Intermediate"
	LevelAdvanced     ClassLevel = "Advanced"
)

var ClassLevels = []ClassLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

type ClassCategory string

const (
	CategoryBalance     ClassCategory = "Balance"
	CategoryFlexibility ClassCategory = "Flexibility"
	CategoryStrength    ClassCategory = "Strength"
	CategoryHandstands  ClassCategory = "Handstands"
	CategoryUpsideDown  ClassCategory = "Upside Down"
	CategoryRelaxation  ClassCategory = "Relaxation"
	CategoryCore        ClassCategory = "Core"
)

var ClassCategories = []ClassCategory{
	CategoryBalance,
	CategoryFlexibility,
	CategoryStrength,
	CategoryHandstands,
	CategoryUpsideDown,
	CategoryRelaxation,
	CategoryCore,
}

// ClassFormat is how a class is attended.
type ClassFormat string

const (
	FormatLocation ClassFormat = "Location"
	FormatStream   ClassFormat = "Stream"
	FormatBoth     ClassFormat = "Both"
)

var ClassFormats = []ClassFormat{FormatLocation, FormatStream, FormatBoth}

func (s YogaSpeciality) IsValid() bool { return slices.Contains(YogaSpecialities, s) }
func (l ClassLevel) IsValid() bool     { return slices.Contains(ClassLevels, l) }
func (c ClassCategory) IsValid() bool  { return slices.Contains(ClassCategories, c) }
func (f ClassFormat) IsValid() bool    { return slices.Contains(ClassFormats, f) }

// FindSettingsFile returns the settings path named by the environment,
// falling back to the default location.
func FindSettingsFile() string {
	if path := os.Getenv(SettingsFileEnv); path != "" {
		return path
	}
	return DefaultServiceConfigurationFileName
}
