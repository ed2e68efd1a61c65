// Package pack derives OTA pack documents from a configuration document and
// writes them to disk.
package pack

import (
	"encoding/json"
	"fmt"

	"github.com/rorym/ota-apply/internal/config"
)

// Name identifies one of the fixed pack files.
type Name string

const (
	Design     Name = "design"
	Layout     Name = "layout"
	Screens    Name = "screens"
	Onboarding Name = "onboarding"
	Config     Name = "config"
)

// Names lists every pack in write order.
var Names = []Name{Design, Layout, Screens, Onboarding, Config}

// FileName returns the on-disk name of the pack, e.g. "design_pack.json".
func (n Name) FileName() string {
	return string(n) + "_pack.json"
}

// Pack is a single derived document.
type Pack struct {
	Name Name
	Data json.RawMessage
}

var (
	emptyObject = json.RawMessage(`{}`)
	emptyArray  = json.RawMessage(`[]`)
)

// Build derives the five packs from doc. The result always holds exactly one
// pack per entry of Names, in that order. Every pack is re-encoded from its
// decoded value, so duplicate keys collapse and numbers take their shortest
// form.
func Build(doc *config.Document) ([]Pack, error) {
	if doc == nil {
		doc = &config.Document{}
	}
	sources := []struct {
		name Name
		raw  json.RawMessage
		def  json.RawMessage
	}{
		{Design, doc.AppDesign, emptyObject},
		{Layout, doc.AppLayout, emptyObject},
		{Screens, doc.Screens, emptyArray},
		{Onboarding, doc.OnboardingScreens, emptyArray},
	}

	packs := make([]Pack, 0, len(Names))
	for _, src := range sources {
		data, err := orDefault(src.raw, src.def)
		if err != nil {
			return nil, fmt.Errorf("build %s pack: %w", src.name, err)
		}
		packs = append(packs, Pack{Name: src.name, Data: data})
	}
	cfg, err := buildConfig(doc.MobileApp)
	if err != nil {
		return nil, fmt.Errorf("build %s pack: %w", Config, err)
	}
	return append(packs, Pack{Name: Config, Data: cfg}), nil
}

func orDefault(raw, def json.RawMessage) (json.RawMessage, error) {
	if raw == nil {
		return def, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	if !truthy(v) {
		return def, nil
	}
	return marshal(v), nil
}

// buildConfig shallow-copies the mobile app settings and replaces _id with
// its string form. A falsy or missing _id is dropped.
func buildConfig(mobileApp json.RawMessage) (json.RawMessage, error) {
	var v any
	if mobileApp != nil {
		var err error
		if v, err = parse(mobileApp); err != nil {
			return nil, err
		}
	}
	obj := spread(v)
	id, ok := obj.get("_id")
	if !ok || !truthy(id) {
		obj.remove("_id")
		return marshal(obj), nil
	}
	obj.set("_id", stringify(id))
	return marshal(obj), nil
}
