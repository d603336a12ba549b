package model

type TxPhase string

const (
	TxPhasePending TxPhase = "pending"
	TxPhaseSuccess TxPhase = "success"
	TxPhaseError   TxPhase = "error"
)

// TxStatus is the transient banner shown for a single user action.
type TxStatus struct {
	Visible bool    `json:"visible"`
	Phase   TxPhase `json:"status"`
	Message string  `json:"message"`
}

func HiddenTxStatus() TxStatus {
	return TxStatus{Visible: false, Phase: TxPhasePending}
}
