// Package actions is the state-mutation dispatcher: a closed set of tagged
// action variants applied to a StoreState, each either producing a changed
// state or rejecting with a typed error. Adding a variant means touching
// the Kind list, the decoder and the Apply switch; the compiler and the
// dispatch tests keep those in step.
package actions

import "errors"

type Kind string

const (
	KindSelectBrand    Kind = "SELECT_BRAND"
	KindSelectLocation Kind = "SELECT_LOCATION"
	KindSetAddress     Kind = "SET_ADDRESS"
	KindSetDecoration  Kind = "SET_DECORATION"
	KindOpenStore      Kind = "OPEN_STORE"
	KindToggleProduct  Kind = "TOGGLE_PRODUCT"
	KindAddStaff       Kind = "ADD_STAFF"
	KindFireStaff      Kind = "FIRE_STAFF"
	KindAssignStaff    Kind = "ASSIGN_STAFF"
	KindSetPrice       Kind = "SET_PRICE"
	KindSetInventory   Kind = "SET_INVENTORY"
	KindSetRestock     Kind = "SET_RESTOCK"
	KindStartMarketing Kind = "START_MARKETING"
	KindStopMarketing  Kind = "STOP_MARKETING"
	KindJoinPlatform   Kind = "JOIN_PLATFORM"
	KindLeavePlatform  Kind = "LEAVE_PLATFORM"
	KindTunePlatform   Kind = "TUNE_PLATFORM"
	KindAdvanceWeek    Kind = "ADVANCE_WEEK"
)

// Action is one mutation request. Implementations are plain payload structs;
// the dispatcher never reaches into them except at its own switch.
type Action interface {
	Kind() Kind
}

// Result reports one dispatch. Changed is false whenever Err is set; a
// rejected action leaves the state untouched.
type Result struct {
	Changed bool
	Err     error
}

var (
	ErrWrongPhase        = errors.New("action not valid in current phase")
	ErrInvalidTarget     = errors.New("invalid target id")
	ErrDuplicate         = errors.New("target already present")
	ErrBadValue          = errors.New("value out of range")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type SelectBrand struct {
	BrandID string `json:"brand_id"`
}

func (SelectBrand) Kind() Kind { return KindSelectBrand }

type SelectLocation struct {
	LocationID string `json:"location_id"`
}

func (SelectLocation) Kind() Kind { return KindSelectLocation }

type SetAddress struct {
	Address string `json:"address"`
}

func (SetAddress) Kind() Kind { return KindSetAddress }

type SetDecoration struct {
	Tier int `json:"tier"`
}

func (SetDecoration) Kind() Kind { return KindSetDecoration }

type OpenStore struct{}

func (OpenStore) Kind() Kind { return KindOpenStore }

type ToggleProduct struct {
	ProductID string `json:"product_id"`
	Active    bool   `json:"active"`
}

func (ToggleProduct) Kind() Kind { return KindToggleProduct }

type AddStaff struct {
	ArchetypeID string `json:"archetype_id"`
}

func (AddStaff) Kind() Kind { return KindAddStaff }

type FireStaff struct {
	StaffID string `json:"staff_id"`
}

func (FireStaff) Kind() Kind { return KindFireStaff }

type AssignStaff struct {
	StaffID string `json:"staff_id"`
	Task    string `json:"task"`
}

func (AssignStaff) Kind() Kind { return KindAssignStaff }

type SetPrice struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

func (SetPrice) Kind() Kind { return KindSetPrice }

type SetInventory struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (SetInventory) Kind() Kind { return KindSetInventory }

type SetRestock struct {
	ProductID string `json:"product_id"`
	Strategy  string `json:"strategy"`
	Quantity  int    `json:"quantity"`
}

func (SetRestock) Kind() Kind { return KindSetRestock }

type StartMarketing struct {
	CampaignID string `json:"campaign_id"`
}

func (StartMarketing) Kind() Kind { return KindStartMarketing }

type StopMarketing struct {
	CampaignID string `json:"campaign_id"`
}

func (StopMarketing) Kind() Kind { return KindStopMarketing }

type JoinPlatform struct {
	PlatformID string `json:"platform_id"`
}

func (JoinPlatform) Kind() Kind { return KindJoinPlatform }

type LeavePlatform struct {
	PlatformID string `json:"platform_id"`
}

func (LeavePlatform) Kind() Kind { return KindLeavePlatform }

type TunePlatform struct {
	PlatformID   string  `json:"platform_id"`
	PromoTier    int     `json:"promo_tier"`
	DiscountTier int     `json:"discount_tier"`
	PriceTier    float64 `json:"price_tier"`
}

func (TunePlatform) Kind() Kind { return KindTunePlatform }

type AdvanceWeek struct{}

func (AdvanceWeek) Kind() Kind { return KindAdvanceWeek }
