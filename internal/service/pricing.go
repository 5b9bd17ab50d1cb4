package service

import (
	"strings"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/models"
)

// PricingTier 箱型对应的静态价目
type PricingTier struct {
	BoxType     string       `json:"box_type"`
	Price       models.Money `json:"price"`
	Description string       `json:"description"`
	Time        string       `json:"time"`
	Weight      string       `json:"weight"`
}

// Quote 费用明细
type Quote struct {
	Tier         PricingTier  `json:"tier"`
	BasePrice    models.Money `json:"base_price"`
	ServiceFee   models.Money `json:"service_fee"`
	DeliveryFee  models.Money `json:"delivery_fee"`
	Total        models.Money `json:"total"`
	ItemizedSum  models.Money `json:"itemized_sum"`
	TotalMode    string       `json:"total_mode"`
	DisplayTotal string       `json:"display_total"`
}

var (
	serviceFee  = models.MustMoney("1.99")
	deliveryFee = models.MustMoney("2.99")

	// fixedDisplayTotal 历史页面上写死的合计，与所选箱型无关
	fixedDisplayTotal = models.MustMoney("11.97")
)

var pricingTiers = []PricingTier{
	{
		BoxType:     constants.BoxTypeBooks,
		Price:       models.MustMoney("5.99"),
		Description: "Books, notebooks, and light materials",
		Time:        "30-45 mins",
		Weight:      "Up to 5 lbs",
	},
	{
		BoxType:     constants.BoxTypeLunch,
		Price:       models.MustMoney("4.99"),
		Description: "Lunch boxes and food containers",
		Time:        "20-30 mins",
		Weight:      "Up to 3 lbs",
	},
	{
		BoxType:     constants.BoxTypeFullBag,
		Price:       models.MustMoney("8.99"),
		Description: "Complete school bag with all items",
		Time:        "45-60 mins",
		Weight:      "Up to 15 lbs",
	},
}

// PricingTiers 返回全部价目
func PricingTiers() []PricingTier {
	return append([]PricingTier(nil), pricingTiers...)
}

// IsKnownBoxType 是否为已定义箱型
func IsKnownBoxType(boxType string) bool {
	for _, tier := range pricingTiers {
		if tier.BoxType == boxType {
			return true
		}
	}
	return false
}

// PricingFor 返回箱型对应价目；箱型须与 IsKnownBoxType 一样精确匹配，其余一律回退到 Books
func PricingFor(boxType string) PricingTier {
	for _, tier := range pricingTiers {
		if tier.BoxType == boxType {
			return tier
		}
	}
	return pricingTiers[0]
}

// QuoteFor 计算费用；fixed 模式合计恒为 11.97，itemized 模式为基础价加两项费用
func QuoteFor(boxType, totalMode string) Quote {
	tier := PricingFor(boxType)
	sum := tier.Price.Add(serviceFee).Add(deliveryFee)
	mode := normalizeTotalMode(totalMode)
	total := fixedDisplayTotal
	if mode == constants.PricingTotalModeItemized {
		total = sum
	}
	return Quote{
		Tier:         tier,
		BasePrice:    tier.Price,
		ServiceFee:   serviceFee,
		DeliveryFee:  deliveryFee,
		Total:        total,
		ItemizedSum:  sum,
		TotalMode:    mode,
		DisplayTotal: total.Display(),
	}
}

func normalizeTotalMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), constants.PricingTotalModeItemized) {
		return constants.PricingTotalModeItemized
	}
	return constants.PricingTotalModeFixed
}
