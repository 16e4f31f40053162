package suppress

import (
	"github.com/leadops/leadwash/internal/cleanse"
	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/normalize"
)

// FilterByDNCPhones removes rows whose normalized phone is on the DNC
// phone list.
func FilterByDNCPhones(set lead.RecordSet, phoneCol string, dncPhones Set) lead.Outcome {
	return cleanse.Partition(set, lead.ReasonDNCPhoneMatch, func(r lead.Record) bool {
		return dncPhones.Has(normalize.Phone(r.Field(phoneCol)))
	})
}

// FilterByAreaCodes removes rows whose phone's first three digits match
// a DNC area code. Phones with fewer than three digits never match.
func FilterByAreaCodes(set lead.RecordSet, phoneCol string, areaCodes Set) lead.Outcome {
	return cleanse.Partition(set, lead.ReasonDNCAreaCode, func(r lead.Record) bool {
		n := normalize.Phone(r.Field(phoneCol))
		if len(n) < 3 {
			return false
		}
		return areaCodes.Has(n[:3])
	})
}

// FilterByNameMatch removes rows whose normalized first+last name
// concatenation (no separator) is on the DNC name list.
func FilterByNameMatch(set lead.RecordSet, firstCol, lastCol string, names Set) lead.Outcome {
	return cleanse.Partition(set, lead.ReasonDNCNameMatch, func(r lead.Record) bool {
		concat := normalize.Name(r.Field(firstCol)) + normalize.Name(r.Field(lastCol))
		return names.Has(concat)
	})
}

// FilterByTCPAPhones removes rows whose normalized phone is on the TCPA
// suppression list.
func FilterByTCPAPhones(set lead.RecordSet, phoneCol string, tcpaPhones Set) lead.Outcome {
	return cleanse.Partition(set, lead.ReasonTCPAPhoneMatch, func(r lead.Record) bool {
		return tcpaPhones.Has(normalize.Phone(r.Field(phoneCol)))
	})
}

// FilterByTCPAZips removes rows whose normalized zip is on the TCPA zip
// suppression list.
func FilterByTCPAZips(set lead.RecordSet, zipCol string, tcpaZips Set) lead.Outcome {
	return cleanse.Partition(set, lead.ReasonTCPAZipMatch, func(r lead.Record) bool {
		return tcpaZips.Has(normalize.Zip(r.Field(zipCol)))
	})
}

// FilterByMasterPhones removes rows whose normalized phone appears in
// the multi-tab master suppression workbook.
func FilterByMasterPhones(set lead.RecordSet, phoneCol string, masterPhones Set) lead.Outcome {
	return cleanse.Partition(set, lead.ReasonMasterPhoneMatch, func(r lead.Record) bool {
		return masterPhones.Has(normalize.Phone(r.Field(phoneCol)))
	})
}
