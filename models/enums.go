package models

import (
	"errors"
	"strconv"
)

type VehicleBusinessType string

const (
	VehicleBusinessTypeOwner         VehicleBusinessType = "owner"
	VehicleBusinessTypeDealerNetwork VehicleBusinessType = "dealer_network"
	VehicleBusinessTypeConsigned     VehicleBusinessType = "consigned"
)

func (t VehicleBusinessType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *VehicleBusinessType) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("business type must be string")
	}
	switch str {
	case "owner":
		*t = VehicleBusinessTypeOwner
	case "dealer_network":
		*t = VehicleBusinessTypeDealerNetwork
	case "consigned":
		*t = VehicleBusinessTypeConsigned
	default:
		return errors.New("invalid business type")
	}
	return nil
}

// IsNonOwned reports whether the stock is sourced from a third party.
// Non-owned stock requires a vendor and commission terms.
func (t VehicleBusinessType) IsNonOwned() bool {
	return t == VehicleBusinessTypeDealerNetwork || t == VehicleBusinessTypeConsigned
}

type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFixed      CommissionType = "fixed"
)

func (t CommissionType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *CommissionType) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("commission type must be string")
	}
	switch str {
	case "percentage":
		*t = CommissionTypePercentage
	case "fixed":
		*t = CommissionTypeFixed
	case "":
		*t = ""
	default:
		return errors.New("invalid commission type")
	}
	return nil
}

type VehicleState string

const (
	VehicleStateDraft     VehicleState = "draft"
	VehicleStateAvailable VehicleState = "available"
	VehicleStateReserved  VehicleState = "reserved"
	VehicleStateSold      VehicleState = "sold"
	VehicleStateReturned  VehicleState = "returned"
)

func (t VehicleState) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *VehicleState) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("vehicle state must be string")
	}
	vehicleStates := map[string]VehicleState{
		"draft":     VehicleStateDraft,
		"available": VehicleStateAvailable,
		"reserved":  VehicleStateReserved,
		"sold":      VehicleStateSold,
		"returned":  VehicleStateReturned,
	}
	var ok bool
	*t, ok = vehicleStates[str]
	if !ok {
		return errors.New("invalid vehicle state")
	}
	return nil
}

type FuelType string

const (
	FuelTypePetrol   FuelType = "petrol"
	FuelTypeGasoline FuelType = "gasoline"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypeElectric FuelType = "electric"
	FuelTypeCNG      FuelType = "cng"
	FuelTypeOther    FuelType = "other"
)

func (t FuelType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *FuelType) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("fuel type must be string")
	}
	fuelTypes := map[string]FuelType{
		"petrol":   FuelTypePetrol,
		"gasoline": FuelTypeGasoline,
		"diesel":   FuelTypeDiesel,
		"hybrid":   FuelTypeHybrid,
		"electric": FuelTypeElectric,
		"cng":      FuelTypeCNG,
		"other":    FuelTypeOther,
		"":         "",
	}
	var ok bool
	*t, ok = fuelTypes[str]
	if !ok {
		return errors.New("invalid fuel type")
	}
	return nil
}

type TransmissionType string

const (
	TransmissionTypeAMT       TransmissionType = "amt"
	TransmissionTypeManual    TransmissionType = "manual"
	TransmissionTypeAutomatic TransmissionType = "automatic"
	TransmissionTypeCVT       TransmissionType = "cvt"
)

func (t TransmissionType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *TransmissionType) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("transmission must be string")
	}
	switch str {
	case "amt":
		*t = TransmissionTypeAMT
	case "manual":
		*t = TransmissionTypeManual
	case "automatic":
		*t = TransmissionTypeAutomatic
	case "cvt":
		*t = TransmissionTypeCVT
	case "":
		*t = ""
	default:
		return errors.New("invalid transmission")
	}
	return nil
}

type VehicleCondition string

const (
	VehicleConditionNew         VehicleCondition = "new"
	VehicleConditionForeignUsed VehicleCondition = "foreign_used"
	VehicleConditionLocalUsed   VehicleCondition = "local_used"
)

func (t VehicleCondition) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *VehicleCondition) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("condition must be string")
	}
	switch str {
	case "new":
		*t = VehicleConditionNew
	case "foreign_used":
		*t = VehicleConditionForeignUsed
	case "local_used":
		*t = VehicleConditionLocalUsed
	case "":
		*t = ""
	default:
		return errors.New("invalid condition")
	}
	return nil
}

// Label returns the human readable form used in listing details.
func (t VehicleCondition) Label() string {
	switch t {
	case VehicleConditionNew:
		return "Brand New"
	case VehicleConditionForeignUsed:
		return "Foreign Used"
	case VehicleConditionLocalUsed:
		return "Local Used"
	}
	return ""
}

type BodyType string

const (
	BodyTypeSedan       BodyType = "sedan"
	BodyTypeSUV         BodyType = "suv"
	BodyTypeHatchback   BodyType = "hatchback"
	BodyTypeCoupe       BodyType = "coupe"
	BodyTypeConvertible BodyType = "convertible"
	BodyTypeWagon       BodyType = "wagon"
	BodyTypeTruck       BodyType = "truck"
	BodyTypeVan         BodyType = "van"
)

func (t BodyType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *BodyType) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("body type must be string")
	}
	bodyTypes := map[string]BodyType{
		"sedan":       BodyTypeSedan,
		"suv":         BodyTypeSUV,
		"hatchback":   BodyTypeHatchback,
		"coupe":       BodyTypeCoupe,
		"convertible": BodyTypeConvertible,
		"wagon":       BodyTypeWagon,
		"truck":       BodyTypeTruck,
		"van":         BodyTypeVan,
		"":            "",
	}
	var ok bool
	*t, ok = bodyTypes[str]
	if !ok {
		return errors.New("invalid body type")
	}
	return nil
}

type FeatureCategory string

const (
	FeatureCategoryInterior    FeatureCategory = "interior"
	FeatureCategoryExterior    FeatureCategory = "exterior"
	FeatureCategorySafety      FeatureCategory = "safety"
	FeatureCategoryTechnology  FeatureCategory = "technology"
	FeatureCategoryPerformance FeatureCategory = "performance"
)

func (t FeatureCategory) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *FeatureCategory) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("feature category must be string")
	}
	featureCategories := map[string]FeatureCategory{
		"interior":    FeatureCategoryInterior,
		"exterior":    FeatureCategoryExterior,
		"safety":      FeatureCategorySafety,
		"technology":  FeatureCategoryTechnology,
		"performance": FeatureCategoryPerformance,
		"":            "",
	}
	var ok bool
	*t, ok = featureCategories[str]
	if !ok {
		return errors.New("invalid feature category")
	}
	return nil
}

type LeaseState string

const (
	LeaseStateDraft      LeaseState = "draft"
	LeaseStateActive     LeaseState = "active"
	LeaseStateExpired    LeaseState = "expired"
	LeaseStateTerminated LeaseState = "terminated"
	LeaseStateCompleted  LeaseState = "completed"
)

func (t LeaseState) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *LeaseState) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("lease state must be string")
	}
	leaseStates := map[string]LeaseState{
		"draft":      LeaseStateDraft,
		"active":     LeaseStateActive,
		"expired":    LeaseStateExpired,
		"terminated": LeaseStateTerminated,
		"completed":  LeaseStateCompleted,
	}
	var ok bool
	*t, ok = leaseStates[str]
	if !ok {
		return errors.New("invalid lease state")
	}
	return nil
}

type TestDriveState string

const (
	TestDriveStateDraft     TestDriveState = "draft"
	TestDriveStateConfirmed TestDriveState = "confirmed"
	TestDriveStateCancelled TestDriveState = "cancelled"
)

func (t TestDriveState) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *TestDriveState) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("test drive state must be string")
	}
	switch str {
	case "draft":
		*t = TestDriveStateDraft
	case "confirmed":
		*t = TestDriveStateConfirmed
	case "cancelled":
		*t = TestDriveStateCancelled
	default:
		return errors.New("invalid test drive state")
	}
	return nil
}

type UserRole string

const (
	UserRoleAdmin UserRole = "A"
	UserRoleOwner UserRole = "O"
	UserRoleClerk UserRole = "C"
)

// SyncReferenceType identifies which record a reconciliation message
// refers to. Stored as a short code.
type SyncReferenceType string

const (
	SyncReferenceTypeVehicle      SyncReferenceType = "VH"
	SyncReferenceTypeCatalogEntry SyncReferenceType = "CE"
	SyncReferenceTypeReceipt      SyncReferenceType = "RC"
	SyncReferenceTypeSale         SyncReferenceType = "SL"
	SyncReferenceTypeReturn       SyncReferenceType = "RT"
	SyncReferenceTypeLease        SyncReferenceType = "LS"
)

func (t SyncReferenceType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *SyncReferenceType) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("sync reference type must be string")
	}
	syncReferenceTypes := map[string]SyncReferenceType{
		"VH": SyncReferenceTypeVehicle,
		"CE": SyncReferenceTypeCatalogEntry,
		"RC": SyncReferenceTypeReceipt,
		"SL": SyncReferenceTypeSale,
		"RT": SyncReferenceTypeReturn,
		"LS": SyncReferenceTypeLease,
	}
	var ok bool
	*t, ok = syncReferenceTypes[str]
	if !ok {
		return errors.New("invalid sync reference type")
	}
	return nil
}

type SyncMessageAction string

const (
	SyncMessageActionCreate SyncMessageAction = "C"
	SyncMessageActionUpdate SyncMessageAction = "U"
	SyncMessageActionDelete SyncMessageAction = "D"
)

func (t SyncMessageAction) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *SyncMessageAction) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("sync action must be string")
	}
	switch str {
	case "C":
		*t = SyncMessageActionCreate
	case "U":
		*t = SyncMessageActionUpdate
	case "D":
		*t = SyncMessageActionDelete
	default:
		return errors.New("invalid sync action")
	}
	return nil
}
