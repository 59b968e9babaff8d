package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMergeHomeConfigKeepsDefaultFields(t *testing.T) {
	def := DefaultHomeConfig()
	stored := json.RawMessage(`{"announcement":"Hot Sale","hero":{"title":"Nuevo iPhone"}}`)

	got := MergeHomeConfig(def, stored)

	if got.Announcement != "Hot Sale" || got.Hero.Title != "Nuevo iPhone" {
		t.Fatalf("stored values not applied: %+v", got)
	}
	if got.Hero.CTALabel != def.Hero.CTALabel || got.Hero.CTAHref != def.Hero.CTAHref {
		t.Fatalf("hero default fields lost: %+v", got.Hero)
	}
	if !reflect.DeepEqual(got.Sections, def.Sections) {
		t.Fatalf("sections should default when absent: %+v", got.Sections)
	}
}

func TestMergeHomeConfigSectionsByID(t *testing.T) {
	def := DefaultHomeConfig()
	stored := json.RawMessage(`{"sections":[
		{"id":"new-promo","title":"Promo","limit":3,"enabled":true},
		{"id":"mac","enabled":false,"limit":0},
		{"title":"no id, dropped"},
		"garbage"
	]}`)

	got := MergeHomeConfig(def, stored)

	ids := make([]string, len(got.Sections))
	for i, s := range got.Sections {
		ids[i] = s.ID
	}
	want := []string{"featured", "iphone", "mac", "accesorios", "new-promo"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("section order = %v, want %v", ids, want)
	}

	mac := got.Sections[2]
	if mac.Enabled || mac.Limit != 4 || mac.Title != "Mac" {
		t.Fatalf("mac section merged wrong: %+v", mac)
	}
	if promo := got.Sections[4]; promo.Title != "Promo" || promo.Limit != 3 || !promo.Enabled {
		t.Fatalf("new section merged wrong: %+v", promo)
	}
}

func TestMergeDoesNotAliasBase(t *testing.T) {
	def := DefaultHomeConfig()
	got := MergeHomeConfig(def, json.RawMessage(`{"sections":[{"id":"featured","title":"Changed"}]}`))
	got.Sections[1].Title = "mutated"

	if def.Sections[0].Title != "Destacados" || def.Sections[1].Title != "iPhone" {
		t.Fatalf("merge aliased the base slice: %+v", def.Sections)
	}
}

func TestMergeMalformedDocumentsFallBack(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `"text"`, `{broken`} {
		if got := MergeDollarConfig(DefaultDollarConfig(), json.RawMessage(raw)); got != DefaultDollarConfig() {
			t.Errorf("dollar merge of %q = %+v", raw, got)
		}
		if got := MergeTradeInConfig(DefaultTradeInConfig(), json.RawMessage(raw)); !reflect.DeepEqual(got, DefaultTradeInConfig()) {
			t.Errorf("trade-in merge of %q = %+v", raw, got)
		}
	}
}

func TestMergeDollarConfigValidation(t *testing.T) {
	def := DefaultDollarConfig()
	tests := []struct {
		name   string
		stored string
		want   DollarConfig
	}{
		{
			name:   "valid manual override",
			stored: `{"mode":"MANUAL","manual_rate":1450.5,"markup_percent":3}`,
			want:   DollarConfig{Mode: "manual", Source: "blue", ManualRate: 1450.5, MarkupPercent: 3, RoundTo: 100},
		},
		{
			name:   "invalid scalars fall back",
			stored: `{"mode":"crypto","source":"tarjeta","manual_rate":-5,"markup_percent":"ten","round_to":-1}`,
			want:   def,
		},
		{
			name:   "zero rate rejected",
			stored: `{"manual_rate":0,"source":"mep"}`,
			want:   DollarConfig{Mode: "auto", Source: "mep", ManualRate: 1200, RoundTo: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeDollarConfig(def, json.RawMessage(tt.stored)); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeTradeInConfig(t *testing.T) {
	stored := json.RawMessage(`{
		"currency":"ars",
		"rows":[
			{"id":"iphone-14-128","good_usd":390,"fair_usd":-1},
			{"id":"iphone-16-128","model":"iPhone 16","storage":"128GB","excellent_usd":700}
		]
	}`)

	got := MergeTradeInConfig(DefaultTradeInConfig(), stored)

	if got.Currency != "ARS" || !got.Enabled {
		t.Fatalf("scalars merged wrong: %+v", got)
	}
	if len(got.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got.Rows))
	}
	row := got.Rows[1]
	if row.GoodUSD != 390 || row.FairUSD != 300 || row.ExcellentUSD != 420 {
		t.Fatalf("row merged wrong: %+v", row)
	}
	if added := got.Rows[3]; added.Model != "iPhone 16" || added.ExcellentUSD != 700 {
		t.Fatalf("new row merged wrong: %+v", added)
	}
}

func TestInstallmentQuote(t *testing.T) {
	cfg := MergeInstallmentConfig(DefaultInstallmentConfig(),
		json.RawMessage(`{"plans":[{"id":"12","enabled":false},{"id":"18","label":"18 cuotas","installments":18,"surcharge_percent":70,"enabled":true}]}`))

	quotes := cfg.Quote(100000)

	var ids []string
	for _, q := range quotes {
		ids = append(ids, q.PlanID)
	}
	if want := []string{"1", "3", "6", "18"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("quoted plans = %v, want %v", ids, want)
	}
	if q := quotes[1]; q.Total != 112000 || q.PerPayment != 37333.33 {
		t.Fatalf("3 cuotas quote = %+v", q)
	}
	if q := quotes[3]; q.Total != 170000 || q.Installments != 18 {
		t.Fatalf("18 cuotas quote = %+v", q)
	}

	if len(cfg.Quote(0)) != 0 {
		t.Fatal("no quotes for a zero price")
	}
	cfg.Enabled = false
	if len(cfg.Quote(1000)) != 0 {
		t.Fatal("no quotes when installments are disabled")
	}
}

func TestDollarToLocal(t *testing.T) {
	cfg := DollarConfig{MarkupPercent: 5, RoundTo: 100}
	if got := cfg.ToLocal(999, 1200); got != 1258800 {
		t.Fatalf("rounded conversion = %v", got)
	}
	cfg.RoundTo = 0
	if got := cfg.ToLocal(10.5, 1000); got != 11025 {
		t.Fatalf("unrounded conversion = %v", got)
	}
}

func TestMergeInstallmentPlansNumericID(t *testing.T) {
	got := MergeInstallmentConfig(DefaultInstallmentConfig(),
		json.RawMessage(`{"plans":[{"id":3,"surcharge_percent":10},{"id":18,"label":"18 cuotas","installments":18}]}`))

	want := len(DefaultInstallmentConfig().Plans) + 1
	if len(got.Plans) != want {
		t.Fatalf("plans = %d, want %d: %+v", len(got.Plans), want, got.Plans)
	}
	if p := got.Plans[1]; p.ID != "3" || p.SurchargePercent != 10 || p.Installments != 3 {
		t.Fatalf("numeric id did not merge onto plan 3: %+v", p)
	}
	if p := got.Plans[len(got.Plans)-1]; p.ID != "18" || p.Installments != 18 {
		t.Fatalf("numeric id entry was not appended: %+v", p)
	}
}
