package protocol

// Client -> Server frame types.
const (
	TypeRegister     = "register"
	TypeBuzz         = "buzz"
	TypeAdminCommand = "admin_command"
)

// Admin commands carried in the "command" field.
const (
	CommandReset  = "reset"
	CommandLock   = "lock"
	CommandUnlock = "unlock"
)

// Server -> Client frame types.
const (
	TypeStateUpdate          = "state_update"
	TypeRegistrationRejected = "registration_rejected"
	TypeBuzzRejected         = "buzz_rejected"
)

// Rejection reasons.
const (
	ReasonDuplicateName = "duplicate_name"
	ReasonLocked        = "locked"
	ReasonAlreadyBuzzed = "already_buzzed"
)

// ClientMessage is the decoded form of one inbound frame. Fields beyond
// Type are populated depending on the discriminator.
type ClientMessage struct {
	Type     string `json:"type"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	Command  string `json:"command,omitempty"`
}

// BuzzEntry is one accepted buzz in the session log. Order is 1-based and
// contiguous within a round.
type BuzzEntry struct {
	TeamName string `json:"team_name"`
	BuzzTime string `json:"buzz_time"`
	Order    int    `json:"order"`
}

// TeamStatus is the per-team roster line sent to admins.
type TeamStatus struct {
	TeamName  string  `json:"team_name"`
	HasBuzzed bool    `json:"has_buzzed"`
	BuzzTime  *string `json:"buzz_time"`
}

// Outbound is one server-to-client frame.
type Outbound interface{ isOutbound() }

// StateUpdate is the role-specific snapshot of the session. HasBuzzed is set
// only on buzzer snapshots; Teams only on admin snapshots.
type StateUpdate struct {
	Type      string       `json:"type"`
	Locked    bool         `json:"locked"`
	BuzzLog   []BuzzEntry  `json:"buzz_log"`
	HasBuzzed *bool        `json:"has_buzzed,omitempty"`
	Teams     []TeamStatus `json:"teams,omitempty"`
}

type RegistrationRejected struct {
	Type    string `json:"type"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type BuzzRejected struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (StateUpdate) isOutbound()          {}
func (RegistrationRejected) isOutbound() {}
func (BuzzRejected) isOutbound()         {}
