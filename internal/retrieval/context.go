package retrieval

import (
	"fmt"
	"strings"
)

const (
	contextHeader      = "Relevant data from our records:"
	contextInstruction = "Use this data to answer the user's question accurately. Provide clean, concise information without unnecessary details."
	missingField       = "N/A"
)

// FormatContext renders matched records as a grounding block for the
// generator. An empty result renders as the empty string.
func FormatContext(result MatchResult) string {
	if result.Empty() {
		return ""
	}

	records := result.Records
	if len(records) > MaxMatches {
		records = records[:MaxMatches]
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteByte('\n')
	for _, rec := range records {
		b.WriteString(formatRecord(rec))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(contextInstruction)
	b.WriteByte('\n')
	return b.String()
}

func formatRecord(rec Record) string {
	switch {
	case rec.Has(TeacherNameField):
		return fmt.Sprintf("- Teacher: %s, Subject: %s, Semester: %s, Designation: %s",
			fieldOrNA(rec, TeacherNameField),
			fieldOrNA(rec, "subject"),
			fieldOrNA(rec, "semester"),
			fieldOrNA(rec, "designation"))
	case rec.Has(StudentNameField):
		return fmt.Sprintf("- Student: %s, Roll No: %s, Email: %s, District: %s, Province: %s",
			fieldOrNA(rec, StudentNameField),
			fieldOrNA(rec, "Roll. No."),
			fieldOrNA(rec, "Email"),
			fieldOrNA(rec, "District"),
			fieldOrNA(rec, "Province"))
	default:
		return "- Record: " + rec.String()
	}
}

func fieldOrNA(rec Record, name string) string {
	v, ok := rec.Get(name)
	if !ok || v.IsEmpty() {
		return missingField
	}
	return v.String()
}
