package constants

type MemberStatus string

const (
	MemberStatusPendingInvite       MemberStatus = "pending_invite"
	MemberStatusPendingRegistration MemberStatus = "pending_registration"
	MemberStatusActive              MemberStatus = "active"
	MemberStatusInactive            MemberStatus = "inactive"
)

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCheck PaymentMethod = "check"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodOther PaymentMethod = "other"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodCard,
	PaymentMethodOther,
}
