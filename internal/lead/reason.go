package lead

// Reason identifies the rule that removed a record. The vocabulary is
// stable: values are serialized in exports and audit summaries.
type Reason string

const (
	ReasonHighlightedCells  Reason = "highlighted_cells"
	ReasonInvalidLastName   Reason = "invalid_last_name"
	ReasonEmptyPhone        Reason = "empty_phone"
	ReasonInvalidPhone      Reason = "invalid_phone"
	ReasonInvalidEmail      Reason = "invalid_email"
	ReasonContainsTest      Reason = "contains_test"
	ReasonPlaceholderEmail  Reason = "placeholder_email"
	ReasonFakeEmail         Reason = "fake_email"
	ReasonProhibitedContent Reason = "prohibited_content"
	ReasonInvalidUUID       Reason = "invalid_uuid"
	ReasonDNCPhoneMatch     Reason = "dnc_phone_match"
	ReasonDNCAreaCode       Reason = "dnc_area_code"
	ReasonDNCNameMatch      Reason = "dnc_name_match"
	ReasonTCPAZipMatch      Reason = "tcpa_zip_match"
	ReasonTCPAPhoneMatch    Reason = "tcpa_phone_match"
	ReasonDuplicatePhone    Reason = "duplicate_phone"
	ReasonMasterPhoneMatch  Reason = "master_phone_match"
	ReasonCrossfileDedupe   Reason = "crossfile_dedupe"
)

var reasonDescriptions = map[Reason]string{
	ReasonHighlightedCells:  "Highlighted cell in original file",
	ReasonInvalidLastName:   "Invalid last name (must start with letter)",
	ReasonEmptyPhone:        "Empty/missing phone number",
	ReasonInvalidPhone:      "Invalid phone (must be 10 digits, not starting with 1)",
	ReasonInvalidEmail:      "Invalid email format",
	ReasonContainsTest:      `Contains "TEST" in data`,
	ReasonPlaceholderEmail:  "Placeholder email (N/A, No, None, etc.)",
	ReasonFakeEmail:         "Fake or suspicious email",
	ReasonProhibitedContent: "Contains prohibited content (loan depot, profanity)",
	ReasonInvalidUUID:       "Invalid UUID format",
	ReasonDNCPhoneMatch:     "Phone matches DNC list",
	ReasonDNCAreaCode:       "Phone area code matches DNC list",
	ReasonDNCNameMatch:      "Name matches DNC list",
	ReasonTCPAZipMatch:      "Zip code matches TCPA suppression list",
	ReasonTCPAPhoneMatch:    "Phone matches TCPA suppression list",
	ReasonDuplicatePhone:    "Duplicate phone number",
	ReasonMasterPhoneMatch:  "Phone matches master suppression list",
	ReasonCrossfileDedupe:   "Phone exists in newer file",
}

// Description returns the human-readable reason string used in exports.
// Unknown reasons render as their raw code.
func (r Reason) Description() string {
	if d, ok := reasonDescriptions[r]; ok {
		return d
	}
	return string(r)
}

// reasonFields maps each reason to the field role(s) implicated by it,
// used to highlight the offending column(s) in the removed-rows export.
// Reasons absent from the map (highlighted cells, TEST markers,
// prohibited content, cross-file dedupe) implicate no single column.
var reasonFields = map[Reason][]FieldRole{
	ReasonInvalidLastName:  {RoleLastName},
	ReasonEmptyPhone:       {RolePhone},
	ReasonInvalidPhone:     {RolePhone},
	ReasonInvalidEmail:     {RoleEmail},
	ReasonPlaceholderEmail: {RoleEmail},
	ReasonFakeEmail:        {RoleEmail},
	ReasonInvalidUUID:      {RoleLeadID},
	ReasonDNCPhoneMatch:    {RolePhone},
	ReasonDNCAreaCode:      {RolePhone},
	ReasonDNCNameMatch:     {RoleFirstName, RoleLastName},
	ReasonTCPAZipMatch:     {RoleZipCode},
	ReasonTCPAPhoneMatch:   {RolePhone},
	ReasonDuplicatePhone:   {RolePhone},
	ReasonMasterPhoneMatch: {RolePhone},
}

// Fields returns the field roles implicated by the reason, or nil when
// the reason applies to the whole row.
func (r Reason) Fields() []FieldRole {
	return reasonFields[r]
}
