package enums

// NyxcipherStatus tracks the lifecycle of a draw.
type NyxcipherStatus string

const (
	NyxcipherStatusDraft  NyxcipherStatus = "draft"
	NyxcipherStatusActive NyxcipherStatus = "active"
	NyxcipherStatusClosed NyxcipherStatus = "closed"
)

func (s NyxcipherStatus) IsValid() bool {
	switch s {
	case NyxcipherStatusDraft, NyxcipherStatusActive, NyxcipherStatusClosed:
		return true
	}
	return false
}
