package severity

type Level string

const (
	Low      Level = "LOW"
	Medium   Level = "MEDIUM"
	High     Level = "HIGH"
	Critical Level = "CRITICAL"
)

var labels = map[Level]string{
	Low:      "Low",
	Medium:   "Medium",
	High:     "High",
	Critical: "Critical",
}

func (l Level) Label() string {
	return labels[l]
}

func Choices() []string {
	return []string{string(Low), string(Medium), string(High), string(Critical)}
}

// OrDefault returns MEDIUM for an empty value.
func OrDefault(v string) string {
	if v == "" {
		return string(Medium)
	}
	return v
}
