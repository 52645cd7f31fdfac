package model

// DisasterType categorizes the kind of disaster described by a report
type DisasterType string

const (
	DisasterEarthquake DisasterType = "earthquake"
	DisasterFlood      DisasterType = "flood"
	DisasterHurricane  DisasterType = "hurricane"
	DisasterWildfire   DisasterType = "wildfire"
	DisasterTsunami    DisasterType = "tsunami"
	DisasterTornado    DisasterType = "tornado"
	DisasterLandslide  DisasterType = "landslide"
	DisasterDrought    DisasterType = "drought"
	DisasterOther      DisasterType = "other"
	DisasterUnknown    DisasterType = "unknown"
)

// NeedType categorizes the primary need expressed by a report
type NeedType string

const (
	NeedMedical     NeedType = "medical"
	NeedFood        NeedType = "food"
	NeedWater       NeedType = "water"
	NeedShelter     NeedType = "shelter"
	NeedRescue      NeedType = "rescue"
	NeedEvacuation  NeedType = "evacuation"
	NeedSupplies    NeedType = "supplies"
	NeedInformation NeedType = "information"
	NeedOther       NeedType = "other"
	NeedUnknown     NeedType = "unknown"
)

// Urgency ranks how quickly a report needs attention
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// PeopleCategory labels a people-estimate bucket
type PeopleCategory string

const (
	PeopleAffected  PeopleCategory = "affected"
	PeopleDisplaced PeopleCategory = "displaced"
	PeopleDead      PeopleCategory = "dead"
	PeopleInjured   PeopleCategory = "injured"
	PeopleEvacuated PeopleCategory = "evacuated"
	PeopleMissing   PeopleCategory = "missing"
)

// VulnerableGroup labels an at-risk population mentioned in a report
type VulnerableGroup string

const (
	GroupChildren VulnerableGroup = "children"
	GroupElderly  VulnerableGroup = "elderly"
	GroupDisabled VulnerableGroup = "disabled"
	GroupPregnant VulnerableGroup = "pregnant"
	GroupInjured  VulnerableGroup = "injured"
)

// ClassificationResult is the validated, schema-safe output of the
// classification oracle. Every field is guaranteed in range: malformed or
// missing oracle output degrades to unknown/null, never to an error.
type ClassificationResult struct {
	DisasterType     DisasterType           `json:"disaster_type"`
	NeedType         NeedType               `json:"need_type"`
	Urgency          Urgency                `json:"urgency"`
	Confidence       float64                `json:"confidence"` // always in [0,1]
	PeopleEstimates  map[PeopleCategory]int `json:"people_estimates,omitempty"`
	PeopleAffected   *int                   `json:"people_affected,omitempty"`
	VulnerableGroups []VulnerableGroup      `json:"vulnerable_groups,omitempty"`
	LocationRawText  string                 `json:"location_raw_text,omitempty"`
	ContactInfo      string                 `json:"contact_info,omitempty"`
	SourceLanguage   string                 `json:"source_language,omitempty"`
	NormalizedText   string                 `json:"normalized_text,omitempty"`
}

// DefaultClassification is the fully degraded result used when the oracle
// is unreachable or returns garbage. The pipeline must still produce a record.
func DefaultClassification() ClassificationResult {
	return ClassificationResult{
		DisasterType:   DisasterUnknown,
		NeedType:       NeedUnknown,
		Urgency:        UrgencyLow,
		Confidence:     0.0,
		SourceLanguage: "en",
	}
}

var knownDisasterTypes = map[DisasterType]bool{
	DisasterEarthquake: true, DisasterFlood: true, DisasterHurricane: true,
	DisasterWildfire: true, DisasterTsunami: true, DisasterTornado: true,
	DisasterLandslide: true, DisasterDrought: true, DisasterOther: true,
	DisasterUnknown: true,
}

var knownNeedTypes = map[NeedType]bool{
	NeedMedical: true, NeedFood: true, NeedWater: true, NeedShelter: true,
	NeedRescue: true, NeedEvacuation: true, NeedSupplies: true,
	NeedInformation: true, NeedOther: true, NeedUnknown: true,
}

var knownUrgencies = map[Urgency]bool{
	UrgencyCritical: true, UrgencyHigh: true, UrgencyMedium: true, UrgencyLow: true,
}

var knownPeopleCategories = map[PeopleCategory]bool{
	PeopleAffected: true, PeopleDisplaced: true, PeopleDead: true,
	PeopleInjured: true, PeopleEvacuated: true, PeopleMissing: true,
}

var knownVulnerableGroups = map[VulnerableGroup]bool{
	GroupChildren: true, GroupElderly: true, GroupDisabled: true,
	GroupPregnant: true, GroupInjured: true,
}

// ParseDisasterType maps an oracle-supplied string onto the enum,
// degrading unrecognized values to unknown.
func ParseDisasterType(s string) DisasterType {
	if knownDisasterTypes[DisasterType(s)] {
		return DisasterType(s)
	}
	return DisasterUnknown
}

// ParseNeedType maps an oracle-supplied string onto the enum.
func ParseNeedType(s string) NeedType {
	if knownNeedTypes[NeedType(s)] {
		return NeedType(s)
	}
	return NeedUnknown
}

// ParseUrgency maps an oracle-supplied string onto the enum. Missing or
// unrecognized urgency defaults to low rather than inflating priority.
func ParseUrgency(s string) Urgency {
	if knownUrgencies[Urgency(s)] {
		return Urgency(s)
	}
	return UrgencyLow
}

// ParsePeopleCategory reports whether the category is one we track.
func ParsePeopleCategory(s string) (PeopleCategory, bool) {
	c := PeopleCategory(s)
	return c, knownPeopleCategories[c]
}

// ParseVulnerableGroup reports whether the group label is one we track.
func ParseVulnerableGroup(s string) (VulnerableGroup, bool) {
	g := VulnerableGroup(s)
	return g, knownVulnerableGroups[g]
}
