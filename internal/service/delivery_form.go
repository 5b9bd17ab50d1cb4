package service

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"

	"github.com/go-playground/validator/v10"
)

const pickupDateLayout = "2006-01-02"
const pickupTimeLayout = "3:04 PM"

var pickupTimeInputLayouts = []string{pickupTimeLayout, "3:04PM", "15:04"}

// DeliveryDraftInput 取件单原始表单输入
type DeliveryDraftInput struct {
	FullName        string `json:"full_name" validate:"required,min=2"`
	PhoneNumber     string `json:"phone_number" validate:"required,min=10"`
	PickupAddress   string `json:"pickup_address" validate:"required,min=10"`
	SchoolName      string `json:"school_name" validate:"required,school"`
	OtherSchoolName string `json:"other_school_name" validate:"required_if=SchoolName Other"`
	PickupDate      string `json:"pickup_date" validate:"required,datetime=2006-01-02,not_past"`
	PickupTime      string `json:"pickup_time" validate:"required,pickup_slot"`
	BoxType         string `json:"box_type" validate:"required,box_type"`
	AdditionalNotes string `json:"additional_notes" validate:"max=1000"`
}

// DeliveryDraft 校验通过的草稿，按值传递
type DeliveryDraft struct {
	FullName        string `json:"full_name"`
	PhoneNumber     string `json:"phone_number"`
	PickupAddress   string `json:"pickup_address"`
	SchoolName      string `json:"school_name"`
	PickupDate      string `json:"pickup_date"`
	PickupTime      string `json:"pickup_time"`
	BoxType         string `json:"box_type"`
	AdditionalNotes string `json:"additional_notes"`
}

// DraftValidationError 字段级校验失败，Fields 为 字段 -> 文案 key
type DraftValidationError struct {
	Fields map[string]string
}

func (e *DraftValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)
	return "delivery draft invalid: " + strings.Join(keys, ",")
}

// Is 使 errors.Is(err, ErrDraftInvalid) 成立
func (e *DraftValidationError) Is(target error) bool {
	return target == ErrDraftInvalid
}

// DeliveryFormOptions 表单可选项，与校验规则同源
type DeliveryFormOptions struct {
	Schools     []string `json:"schools"`
	PickupTimes []string `json:"pickup_times"`
	BoxTypes    []string `json:"box_types"`
}

// DeliveryFormValidator 取件单表单校验器
type DeliveryFormValidator struct {
	validate *validator.Validate
	options  DeliveryFormOptions
	schools  map[string]struct{}
	slots    map[string]struct{}
	location *time.Location
	now      func() time.Time
}

// NewDeliveryFormValidator 创建表单校验器；loc 为 nil 时使用 time.Local
func NewDeliveryFormValidator(cfg config.DeliveryConfig, loc *time.Location) *DeliveryFormValidator {
	if loc == nil {
		loc = time.Local
	}
	v := &DeliveryFormValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		location: loc,
		now:      time.Now,
	}
	v.options = DeliveryFormOptions{
		Schools:     resolveSchools(cfg.Schools),
		PickupTimes: buildPickupSlots(cfg.SlotStart, cfg.SlotEnd, cfg.SlotStepMinutes),
		BoxTypes:    []string{constants.BoxTypeBooks, constants.BoxTypeLunch, constants.BoxTypeFullBag},
	}
	v.schools = toSet(v.options.Schools)
	v.slots = toSet(v.options.PickupTimes)

	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.validate.RegisterValidation("school", func(fl validator.FieldLevel) bool {
		_, ok := v.schools[fl.Field().String()]
		return ok
	})
	_ = v.validate.RegisterValidation("pickup_slot", func(fl validator.FieldLevel) bool {
		_, ok := v.slots[fl.Field().String()]
		return ok
	})
	_ = v.validate.RegisterValidation("box_type", func(fl validator.FieldLevel) bool {
		return IsKnownBoxType(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("not_past", func(fl validator.FieldLevel) bool {
		return !v.isPastDate(fl.Field().String())
	})
	return v
}

// Options 返回表单可选项
func (v *DeliveryFormValidator) Options() DeliveryFormOptions {
	return DeliveryFormOptions{
		Schools:     append([]string(nil), v.options.Schools...),
		PickupTimes: append([]string(nil), v.options.PickupTimes...),
		BoxTypes:    append([]string(nil), v.options.BoxTypes...),
	}
}

// Validate 校验全部规则，任一失败返回 *DraftValidationError
func (v *DeliveryFormValidator) Validate(input DeliveryDraftInput) (DeliveryDraft, error) {
	normalized := normalizeDraftInput(input)
	if err := v.validate.Struct(normalized); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return DeliveryDraft{}, err
		}
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			if _, exists := fields[fe.Field()]; exists {
				continue
			}
			fields[fe.Field()] = draftFieldMessageKey(fe.Field(), fe.Tag())
		}
		return DeliveryDraft{}, &DraftValidationError{Fields: fields}
	}

	school := normalized.SchoolName
	if school == constants.SchoolOther {
		school = normalized.OtherSchoolName
	}
	return DeliveryDraft{
		FullName:        normalized.FullName,
		PhoneNumber:     normalized.PhoneNumber,
		PickupAddress:   normalized.PickupAddress,
		SchoolName:      school,
		PickupDate:      normalized.PickupDate,
		PickupTime:      normalized.PickupTime,
		BoxType:         normalized.BoxType,
		AdditionalNotes: normalized.AdditionalNotes,
	}, nil
}

func (v *DeliveryFormValidator) isPastDate(raw string) bool {
	date, err := time.ParseInLocation(pickupDateLayout, raw, v.location)
	if err != nil {
		// 格式错误由 datetime 规则报告
		return false
	}
	now := v.now().In(v.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.location)
	return date.Before(today)
}

func normalizeDraftInput(input DeliveryDraftInput) DeliveryDraftInput {
	out := DeliveryDraftInput{
		FullName:        strings.TrimSpace(input.FullName),
		PhoneNumber:     strings.TrimSpace(input.PhoneNumber),
		PickupAddress:   strings.TrimSpace(input.PickupAddress),
		SchoolName:      strings.TrimSpace(input.SchoolName),
		OtherSchoolName: strings.TrimSpace(input.OtherSchoolName),
		PickupDate:      strings.TrimSpace(input.PickupDate),
		PickupTime:      normalizePickupTime(input.PickupTime),
		BoxType:         strings.TrimSpace(input.BoxType),
		AdditionalNotes: strings.TrimSpace(input.AdditionalNotes),
	}
	if out.SchoolName != constants.SchoolOther {
		out.OtherSchoolName = ""
	}
	return out
}

// normalizePickupTime 统一为 "3:04 PM"，无法解析时原样返回交给规则报错
func normalizePickupTime(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range pickupTimeInputLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(pickupTimeLayout)
		}
	}
	return trimmed
}

func buildPickupSlots(start, end string, stepMinutes int) []string {
	from, err := time.Parse("15:04", strings.TrimSpace(start))
	if err != nil {
		from, _ = time.Parse("15:04", "08:00")
	}
	to, err := time.Parse("15:04", strings.TrimSpace(end))
	if err != nil {
		to, _ = time.Parse("15:04", "17:00")
	}
	if stepMinutes <= 0 {
		stepMinutes = 30
	}
	slots := make([]string, 0, 24)
	for at := from; !at.After(to); at = at.Add(time.Duration(stepMinutes) * time.Minute) {
		slots = append(slots, at.Format(pickupTimeLayout))
	}
	return slots
}

func resolveSchools(configured []string) []string {
	schools := make([]string, 0, len(configured)+1)
	seen := map[string]struct{}{}
	for _, name := range configured {
		name = strings.TrimSpace(name)
		if name == "" || name == constants.SchoolOther {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		schools = append(schools, name)
	}
	return append(schools, constants.SchoolOther)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func draftFieldMessageKey(field, tag string) string {
	switch field {
	case "full_name":
		return "validation.full_name_min"
	case "phone_number":
		return "validation.phone_number_min"
	case "pickup_address":
		return "validation.pickup_address_min"
	case "school_name":
		return "validation.school_required"
	case "other_school_name":
		return "validation.other_school_required"
	case "pickup_date":
		if tag == "not_past" {
			return "validation.pickup_date_past"
		}
		return "validation.pickup_date_required"
	case "pickup_time":
		return "validation.pickup_time_invalid"
	case "box_type":
		return "validation.box_type_required"
	case "additional_notes":
		return "validation.notes_too_long"
	default:
		return "validation.invalid"
	}
}
