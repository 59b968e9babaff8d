package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Keys of the documents stored in the site_config table.
const (
	ConfigKeyHome         = "home"
	ConfigKeyTradeIn      = "trade_in"
	ConfigKeyInstallments = "installments"
	ConfigKeyDollar       = "dollar"
)

// SiteConfig is one JSON settings document identified by key.
type SiteConfig struct {
	Key       string         `json:"key" gorm:"type:text;primaryKey"`
	Value     datatypes.JSON `json:"value" gorm:"type:jsonb;not null;default:'{}'"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SiteConfig) TableName() string {
	return "site_config"
}

// ═══════════════════════════════════════════════════════════
// Home layout
// ═══════════════════════════════════════════════════════════

type HomeHero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTALabel string `json:"cta_label"`
	CTAHref  string `json:"cta_href"`
	ImageURL string `json:"image_url"`
}

type HomeSection struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Limit        int    `json:"limit"`
	FeaturedOnly bool   `json:"featured_only"`
	Enabled      bool   `json:"enabled"`
}

type HomeConfig struct {
	Announcement   string        `json:"announcement"`
	WhatsAppNumber string        `json:"whatsapp_number"`
	Hero           HomeHero      `json:"hero"`
	Sections       []HomeSection `json:"sections"`
}

func DefaultHomeConfig() HomeConfig {
	return HomeConfig{
		Announcement:   "Envíos a todo el país",
		WhatsAppNumber: "",
		Hero: HomeHero{
			Title:    "Tu próximo iPhone está acá",
			Subtitle: "Equipos nuevos y usados con garantía",
			CTALabel: "Ver productos",
			CTAHref:  "/productos",
			ImageURL: "",
		},
		Sections: []HomeSection{
			{ID: "featured", Title: "Destacados", Limit: 8, FeaturedOnly: true, Enabled: true},
			{ID: "iphone", Title: "iPhone", Category: "iphone", Limit: 8, Enabled: true},
			{ID: "mac", Title: "Mac", Category: "mac", Limit: 4, Enabled: true},
			{ID: "accesorios", Title: "Accesorios", Category: "accesorios", Limit: 4, Enabled: true},
		},
	}
}

// MergeHomeConfig overlays a stored (possibly partial or malformed) document
// onto base.
func MergeHomeConfig(base HomeConfig, stored json.RawMessage) HomeConfig {
	f, ok := decodeFields(stored)
	if !ok {
		return cloneHomeConfig(base)
	}
	out := HomeConfig{
		Announcement:   f.str("announcement", base.Announcement),
		WhatsAppNumber: f.str("whatsapp_number", base.WhatsAppNumber),
		Hero:           base.Hero,
		Sections:       cloneSlice(base.Sections),
	}
	if hero, ok := f.object("hero"); ok {
		out.Hero = HomeHero{
			Title:    hero.str("title", base.Hero.Title),
			Subtitle: hero.str("subtitle", base.Hero.Subtitle),
			CTALabel: hero.str("cta_label", base.Hero.CTALabel),
			CTAHref:  hero.str("cta_href", base.Hero.CTAHref),
			ImageURL: hero.str("image_url", base.Hero.ImageURL),
		}
	}
	if items, ok := f.list("sections"); ok {
		out.Sections = mergeByID(base.Sections, items,
			func(s HomeSection) string { return s.ID },
			func(s HomeSection, f fields) HomeSection {
				return HomeSection{
					ID:           f.identifier("id", s.ID),
					Title:        f.str("title", s.Title),
					Category:     f.str("category", s.Category),
					Limit:        f.integer("limit", s.Limit, atLeastOne),
					FeaturedOnly: f.boolean("featured_only", s.FeaturedOnly),
					Enabled:      f.boolean("enabled", s.Enabled),
				}
			})
	}
	return out
}

func cloneHomeConfig(c HomeConfig) HomeConfig {
	c.Sections = cloneSlice(c.Sections)
	return c
}

// ═══════════════════════════════════════════════════════════
// Trade-in pricing table
// ═══════════════════════════════════════════════════════════

type TradeInRow struct {
	ID           string  `json:"id"`
	Model        string  `json:"model"`
	Storage      string  `json:"storage"`
	ExcellentUSD float64 `json:"excellent_usd"`
	GoodUSD      float64 `json:"good_usd"`
	FairUSD      float64 `json:"fair_usd"`
}

type TradeInConfig struct {
	Enabled    bool         `json:"enabled"`
	Currency   string       `json:"currency"`
	Disclaimer string       `json:"disclaimer"`
	Rows       []TradeInRow `json:"rows"`
}

func DefaultTradeInConfig() TradeInConfig {
	return TradeInConfig{
		Enabled:    true,
		Currency:   "USD",
		Disclaimer: "Cotización estimada sujeta a revisión del equipo.",
		Rows: []TradeInRow{
			{ID: "iphone-13-128", Model: "iPhone 13", Storage: "128GB", ExcellentUSD: 330, GoodUSD: 290, FairUSD: 230},
			{ID: "iphone-14-128", Model: "iPhone 14", Storage: "128GB", ExcellentUSD: 420, GoodUSD: 370, FairUSD: 300},
			{ID: "iphone-15-128", Model: "iPhone 15", Storage: "128GB", ExcellentUSD: 540, GoodUSD: 480, FairUSD: 400},
		},
	}
}

func MergeTradeInConfig(base TradeInConfig, stored json.RawMessage) TradeInConfig {
	f, ok := decodeFields(stored)
	if !ok {
		base.Rows = cloneSlice(base.Rows)
		return base
	}
	out := TradeInConfig{
		Enabled:    f.boolean("enabled", base.Enabled),
		Currency:   strings.ToUpper(f.oneOf("currency", strings.ToLower(base.Currency), "usd", "ars")),
		Disclaimer: f.str("disclaimer", base.Disclaimer),
		Rows:       cloneSlice(base.Rows),
	}
	if items, ok := f.list("rows"); ok {
		out.Rows = mergeByID(base.Rows, items,
			func(r TradeInRow) string { return r.ID },
			func(r TradeInRow, f fields) TradeInRow {
				return TradeInRow{
					ID:           f.identifier("id", r.ID),
					Model:        f.nonEmptyStr("model", r.Model),
					Storage:      f.str("storage", r.Storage),
					ExcellentUSD: f.float("excellent_usd", r.ExcellentUSD, nonNegative),
					GoodUSD:      f.float("good_usd", r.GoodUSD, nonNegative),
					FairUSD:      f.float("fair_usd", r.FairUSD, nonNegative),
				}
			})
	}
	return out
}

// ═══════════════════════════════════════════════════════════
// Installment plans
// ═══════════════════════════════════════════════════════════

type InstallmentPlan struct {
	ID               string  `json:"id"`
	Label            string  `json:"label"`
	Installments     int     `json:"installments"`
	SurchargePercent float64 `json:"surcharge_percent"`
	Enabled          bool    `json:"enabled"`
}

type InstallmentConfig struct {
	Enabled    bool              `json:"enabled"`
	CardsLabel string            `json:"cards_label"`
	Plans      []InstallmentPlan `json:"plans"`
}

// InstallmentQuote is a plan applied to a concrete price.
type InstallmentQuote struct {
	PlanID       string  `json:"plan_id"`
	Label        string  `json:"label"`
	Installments int     `json:"installments"`
	Total        float64 `json:"total"`
	PerPayment   float64 `json:"per_payment"`
}

func DefaultInstallmentConfig() InstallmentConfig {
	return InstallmentConfig{
		Enabled:    true,
		CardsLabel: "Visa, Mastercard y American Express",
		Plans: []InstallmentPlan{
			{ID: "1", Label: "1 pago", Installments: 1, SurchargePercent: 0, Enabled: true},
			{ID: "3", Label: "3 cuotas", Installments: 3, SurchargePercent: 12, Enabled: true},
			{ID: "6", Label: "6 cuotas", Installments: 6, SurchargePercent: 24, Enabled: true},
			{ID: "12", Label: "12 cuotas", Installments: 12, SurchargePercent: 48, Enabled: true},
		},
	}
}

func MergeInstallmentConfig(base InstallmentConfig, stored json.RawMessage) InstallmentConfig {
	f, ok := decodeFields(stored)
	if !ok {
		base.Plans = cloneSlice(base.Plans)
		return base
	}
	out := InstallmentConfig{
		Enabled:    f.boolean("enabled", base.Enabled),
		CardsLabel: f.str("cards_label", base.CardsLabel),
		Plans:      cloneSlice(base.Plans),
	}
	if items, ok := f.list("plans"); ok {
		out.Plans = mergeByID(base.Plans, items,
			func(p InstallmentPlan) string { return p.ID },
			func(p InstallmentPlan, f fields) InstallmentPlan {
				merged := InstallmentPlan{
					ID:               f.identifier("id", p.ID),
					Label:            f.str("label", p.Label),
					Installments:     f.integer("installments", p.Installments, atLeastOne),
					SurchargePercent: f.float("surcharge_percent", p.SurchargePercent, nonNegative),
					Enabled:          f.boolean("enabled", p.Enabled),
				}
				if merged.Installments < 1 {
					merged.Installments = 1
				}
				return merged
			})
	}
	return out
}

// Quote applies every enabled plan to price. Amounts are rounded to cents.
func (c InstallmentConfig) Quote(price float64) []InstallmentQuote {
	quotes := make([]InstallmentQuote, 0, len(c.Plans))
	if !c.Enabled || price <= 0 {
		return quotes
	}
	for _, p := range c.Plans {
		if !p.Enabled || p.Installments < 1 {
			continue
		}
		total := roundCents(price * (1 + p.SurchargePercent/100))
		quotes = append(quotes, InstallmentQuote{
			PlanID:       p.ID,
			Label:        p.Label,
			Installments: p.Installments,
			Total:        total,
			PerPayment:   roundCents(total / float64(p.Installments)),
		})
	}
	return quotes
}

// ═══════════════════════════════════════════════════════════
// Dollar exchange
// ═══════════════════════════════════════════════════════════

const (
	DollarModeAuto   = "auto"
	DollarModeManual = "manual"
)

type DollarConfig struct {
	Mode          string  `json:"mode"`
	Source        string  `json:"source"`
	ManualRate    float64 `json:"manual_rate"`
	MarkupPercent float64 `json:"markup_percent"`
	RoundTo       int     `json:"round_to"`
}

func DefaultDollarConfig() DollarConfig {
	return DollarConfig{
		Mode:          DollarModeAuto,
		Source:        "blue",
		ManualRate:    1200,
		MarkupPercent: 0,
		RoundTo:       100,
	}
}

func MergeDollarConfig(base DollarConfig, stored json.RawMessage) DollarConfig {
	f, ok := decodeFields(stored)
	if !ok {
		return base
	}
	return DollarConfig{
		Mode:          f.oneOf("mode", base.Mode, DollarModeAuto, DollarModeManual),
		Source:        f.oneOf("source", base.Source, "blue", "oficial", "mep"),
		ManualRate:    f.float("manual_rate", base.ManualRate, positive),
		MarkupPercent: f.float("markup_percent", base.MarkupPercent, nonNegative),
		RoundTo:       f.integer("round_to", base.RoundTo, nonNegativeInt),
	}
}

// ToLocal converts a USD amount with the given rate plus markup, rounded up
// to RoundTo when set.
func (c DollarConfig) ToLocal(usd, rate float64) float64 {
	v := usd * rate * (1 + c.MarkupPercent/100)
	if c.RoundTo > 0 {
		step := float64(c.RoundTo)
		return math.Ceil(v/step) * step
	}
	return roundCents(v)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
