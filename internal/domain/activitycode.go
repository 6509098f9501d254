package domain

import (
	"fmt"
	"strings"
)

// activityPrefixes maps known activity types to their code prefix.
var activityPrefixes = map[string]string{
	"Call":           "C",
	"Phone Call":     "C",
	"Visit":          "V",
	"Ent":            "E",
	"Entertainment":  "E",
	"Online Meeting": "OM",
	"Email":          "EM",
	"Survey":         "S",
	"Presentation":   "PR",
	"Proposal":       "PP",
	"Negotiation":    "N",
	"Admin/Tender":   "AT",
	"Tender":         "AT",
	"Closing":        "CL",
	"Other":          "O",
}

// ActivityPrefix returns the code prefix for an activity type. Unknown
// types derive an uppercase prefix from their initials (two words) or
// first two letters.
func ActivityPrefix(activityType string) string {
	if p, ok := activityPrefixes[activityType]; ok {
		return p
	}
	words := strings.Fields(activityType)
	if len(words) > 1 {
		return strings.ToUpper(firstN(words[0], 1) + firstN(words[1], 1))
	}
	return strings.ToUpper(firstN(activityType, 2))
}

func firstN(s string, n int) string {
	r := []rune(s)
	if len(r) < n {
		return string(r)
	}
	return string(r[:n])
}

// CodeRecord is one entry in an activity-code walk: a record in the same
// (customer, product, activity type) lineage, in creation order.
// Consumes marks records that use up a sequence number; the last record
// in the walk always consumes one, so the most recent pending record
// still gets a number.
type CodeRecord struct {
	Seq      int64
	Consumes bool
}

// AssignCode derives the sequence code for the record with targetSeq by
// walking the lineage in creation order. The walk is deterministic: the
// same record set always yields the same code for the same record.
func AssignCode(prefix string, targetSeq int64, records []CodeRecord) string {
	counter := 1
	code := fmt.Sprintf("%s%d", prefix, counter)

	for i, rec := range records {
		if rec.Seq == targetSeq {
			code = fmt.Sprintf("%s%d", prefix, counter)
		}
		if rec.Consumes || i == len(records)-1 {
			counter++
		}
	}
	return code
}

// PlanCodeRecords maps plans into code-walk records. A plan consumes its
// number once reported.
func PlanCodeRecords(plans []*Plan) []CodeRecord {
	records := make([]CodeRecord, len(plans))
	for i, p := range plans {
		records[i] = CodeRecord{Seq: p.Seq, Consumes: p.Status == PlanReported}
	}
	return records
}

// DailyLogCodeRecords maps daily logs into code-walk records. Every
// entry consumes a number.
func DailyLogCodeRecords(logs []*DailyLog) []CodeRecord {
	records := make([]CodeRecord, len(logs))
	for i, l := range logs {
		records[i] = CodeRecord{Seq: l.Seq, Consumes: true}
	}
	return records
}
