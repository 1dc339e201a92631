package types

// Scene identifies a presentation scene the kiosk display can show. The
// engine only requests scene transitions; rendering belongs to the
// presentation collaborator.
type Scene string

const (
	SceneCardScan            Scene = "card_scan"
	SceneWait                Scene = "wait"
	SceneFingerScan          Scene = "finger_scan"
	SceneCardFailed          Scene = "card_failed"
	SceneFingerFailed        Scene = "finger_failed"
	SceneAccessDenied        Scene = "access_denied"
	SceneSuccess             Scene = "success"
	ScenePinEntry            Scene = "pin_entry"
	SceneHeadcountProcessing Scene = "headcount_processing"
	SceneHeadcountResult     Scene = "headcount_result"
	SceneTripActive          Scene = "trip_active"
	SceneTripComplete        Scene = "trip_complete"
)

// OutcomeKind selects the audio/visual acknowledgment for a terminal event.
type OutcomeKind string

const (
	FeedbackAdmit     OutcomeKind = "admit"
	FeedbackReject    OutcomeKind = "reject"
	FeedbackPinWrong  OutcomeKind = "pin_wrong"
	FeedbackPinOK     OutcomeKind = "pin_ok"
	FeedbackTripStart OutcomeKind = "trip_start"
	FeedbackTripEnd   OutcomeKind = "trip_end"
)

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
