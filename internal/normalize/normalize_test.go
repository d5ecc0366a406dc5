package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bold title at start",
			input: "**Admission Process**\nStep 1",
			want:  "Admission Process\n\nStep 1",
		},
		{
			name:  "title mid sentence",
			input: "Here is the info: **Admission Process**\nStep 1",
			want:  "Here is the info:\n\nAdmission Process\n\nStep 1",
		},
		{
			name:  "italic and stray markup",
			input: "## Result\n> *Ram* lives in `Kathmandu`_",
			want:  "Result\n\n Ram lives in Kathmandu",
		},
		{
			name:  "corrections are whole word",
			input: "District: Shanusha, Municipality: Dhanushadham, Caste: Bharman, Shanushas",
			want:  "District: Sunsari, Municipality: Dhanusha, Caste: Brahman, Shanushas",
		},
		{
			name:  "correction exposed by title split",
			input: "ShanushaAdmission Process",
			want:  "Sunsari\n\nAdmission Process",
		},
		{
			name:  "bullets",
			input: "Steps:\n• Apply online\n  2.   Sit the test\n-    Attend interview",
			want:  "Steps:\n\n- Apply online\n\n2 Sit the test\n\n- Attend interview",
		},
		{
			name:  "collapse blank lines",
			input: "First\n\n\n\n\nSecond\nThird",
			want:  "First\n\nSecond\n\nThird",
		},
		{
			name:  "several titles",
			input: "Application Process: fill form. Testing Process: exam. Personal Interview then Selection and Offer Letter",
			want:  "Application Process: fill form.\n\nTesting Process: exam.\n\nPersonal Interview then\n\nSelection and Offer Letter",
		},
		{
			name:  "plain text untouched",
			input: "  Sita Devi teaches Physics.  ",
			want:  "Sita Devi teaches Physics.",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"**Admission Process**\nStep 1",
		"a*b*c*d\n***x***",
		"1. Admission Process\n- Application Process",
		"x\n• Testing Process\n•\tnext",
		"ShanushaAdmission Process and Dhanu_shadham",
		"line one\nline two\nline three\n\n\n\nline four",
		"a\n   \nb\n \n\nc",
		"- - nested\n1. 2. numbered\n1.5. decimal",
		"trailing bullet\n- ",
		"#  Heading\n\n>quote\n\t3.\tthird",
		"Personal InterviewPersonal Interview",
		"   \n\n  Selection and Offer Letter\n",
		"\r1. First step",
		"\u00a0• Apply online",
		"\f-   Attend",
		"intro\n\v\u2003- indented\n\r\n\r2. second",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeBullets(t *testing.T) {
	assert.Equal(t, "1 First step", Normalize("\r1. First step"))
	assert.Equal(t, "- Apply online", Normalize("\u00a0• Apply online"))
	assert.Equal(t, "- Attend", Normalize("\f-   Attend"))
	assert.Equal(t, "- a\n- b\n12 c\n- d", NormalizeBullets("• a\n  ◦ b\n12. c\n -  d"))
	assert.Equal(t, "1.x\n-y", NormalizeBullets("1.x\n-y"))
}

func TestDoubleSingleNewlines(t *testing.T) {
	assert.Equal(t, "a\n\nb\n\nc", doubleSingleNewlines("a\nb\nc"))
	assert.Equal(t, "\na\n\nb\n", doubleSingleNewlines("\na\nb\n"))
	assert.Equal(t, "a\n\nb", doubleSingleNewlines("a\n\nb"))
}
