package forecast

import (
	"strings"
	"testing"
)

func TestGetPalette(t *testing.T) {
	conditions := []Condition{
		ConditionClear, ConditionCloudy, ConditionFog, ConditionDrizzle,
		ConditionRain, ConditionSnow, ConditionStorm,
	}
	for _, c := range conditions {
		p := GetPalette(c)
		if p.BackgroundTop == "" || p.BackgroundBottom == "" || p.Accent == "" {
			t.Errorf("GetPalette(%s) has empty fields: %+v", c, p)
		}
	}

	if got := GetPalette(ConditionUnknown); got != DefaultPalette {
		t.Errorf("GetPalette(unknown) = %+v, want default", got)
	}
	if GetPalette(ConditionRain) == GetPalette(ConditionClear) {
		t.Error("rain and clear share a palette")
	}
}

func TestPaletteCSSVars(t *testing.T) {
	css := GetPalette(ConditionStorm).CSSVars()
	for _, want := range []string{"--bg-top: #cbd5e1", "--bg-bottom: #e2e8f0", "--accent: #7c3aed"} {
		if !strings.Contains(css, want) {
			t.Errorf("CSSVars() = %q, missing %q", css, want)
		}
	}
}
