package availability

// Kind names a booking rule violation. The string form is what the REST API
// returns in the "code" field.
type Kind string

const (
	KindNameTooShort     Kind = "name-too-short"
	KindNameTooLong      Kind = "name-too-long"
	KindWeekdayRequired  Kind = "weekday-required"
	KindSlotRequired     Kind = "slot-required"
	KindSlotNotOffered   Kind = "slot-not-offered"
	KindDuplicateBooking Kind = "duplicate-booking"
	KindSlotFull         Kind = "slot-full"
)

var kindMessages = map[Kind]string{
	KindNameTooShort:     "name must be at least 2 characters",
	KindNameTooLong:      "name must be at most 100 characters",
	KindWeekdayRequired:  "weekday is required",
	KindSlotRequired:     "time slot is required",
	KindSlotNotOffered:   "this time slot is not offered on the selected day",
	KindDuplicateBooking: "you already have a booking for this time slot",
	KindSlotFull:         "this time slot is fully booked",
}

// ParseKind maps an API code back to a Kind.
func ParseKind(code string) (Kind, bool) {
	k := Kind(code)
	_, ok := kindMessages[k]
	return k, ok
}

type ValidationError struct {
	Kind Kind
}

func NewValidationError(kind Kind) *ValidationError {
	return &ValidationError{Kind: kind}
}

func (e *ValidationError) Error() string {
	if msg, ok := kindMessages[e.Kind]; ok {
		return msg
	}
	return string(e.Kind)
}

// Is matches any ValidationError of the same Kind, so callers can write
// errors.Is(err, availability.ErrSlotFull).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNameTooShort     = NewValidationError(KindNameTooShort)
	ErrNameTooLong      = NewValidationError(KindNameTooLong)
	ErrWeekdayRequired  = NewValidationError(KindWeekdayRequired)
	ErrSlotRequired     = NewValidationError(KindSlotRequired)
	ErrSlotNotOffered   = NewValidationError(KindSlotNotOffered)
	ErrDuplicateBooking = NewValidationError(KindDuplicateBooking)
	ErrSlotFull         = NewValidationError(KindSlotFull)
)
