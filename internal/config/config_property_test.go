package config

import (
	"math"
	"testing"
	"testing/quick"
	"time"
)

// TestApplyDefaultsIdempotence verifies that applying defaults twice
// produces the same result as applying once.
func TestApplyDefaultsIdempotence(t *testing.T) {
	property := func(trigger float64, tickMs, settleMs uint16, haptic, color string) bool {
		// Create two identical configs
		build := func() *Config {
			return &Config{
				Refresh: RefreshConfig{
					TriggerDistance: trigger,
					TickInterval:    time.Duration(tickMs) * time.Millisecond,
					SettleDuration:  time.Duration(settleMs) * time.Millisecond,
				},
				Indicator: IndicatorConfig{Color: color, Haptic: haptic},
			}
		}
		c1, c2 := build(), build()

		// Apply defaults once to c1
		c1.applyDefaults()

		// Apply defaults twice to c2
		c2.applyDefaults()
		c2.applyDefaults()

		// Property: Results are identical
		return *c1 == *c2 || (math.IsNaN(trigger) && c1.Indicator == c2.Indicator)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestApplyDefaultsNonEmptyFields verifies that after applying defaults,
// critical fields are non-zero.
func TestApplyDefaultsNonEmptyFields(t *testing.T) {
	property := func(trigger float64, tickMs uint16, level string) bool {
		c := &Config{
			Refresh: RefreshConfig{
				TriggerDistance: trigger,
				TickInterval:    time.Duration(tickMs) * time.Millisecond,
			},
			Log: LogConfig{Level: level},
		}

		c.applyDefaults()

		// Property: After defaults, these fields are non-zero
		return c.Refresh.TriggerDistance != 0 &&
			c.Refresh.TickInterval != 0 &&
			c.Refresh.SettleDuration != 0 &&
			c.Indicator.Haptic != "" &&
			c.Log.Level != ""
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestApplyDefaultsPreservesExistingValues verifies that applyDefaults
// does not overwrite non-zero values.
func TestApplyDefaultsPreservesExistingValues(t *testing.T) {
	property := func(trigger float64, items uint8, color, hint string) bool {
		c := &Config{
			Refresh:   RefreshConfig{TriggerDistance: trigger},
			Indicator: IndicatorConfig{Color: color, HintText: hint},
			Demo:      DemoConfig{Items: int(items)},
		}

		c.applyDefaults()

		// Property: Non-zero values are preserved
		if trigger != 0 && !math.IsNaN(trigger) && c.Refresh.TriggerDistance != trigger {
			return false
		}
		if items != 0 && c.Demo.Items != int(items) {
			return false
		}
		if color != "" && c.Indicator.Color != color {
			return false
		}
		return c.Indicator.HintText == hint
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestValidateRejectsNonPositiveTrigger verifies that a negative trigger
// distance never validates.
func TestValidateRejectsNonPositiveTrigger(t *testing.T) {
	property := func(trigger float64) bool {
		c := Default()
		c.Refresh.TriggerDistance = -math.Abs(trigger)
		return c.validate() != nil
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestValidateFailureRateBounds verifies that failure rates outside [0,1]
// are rejected and rates inside pass.
func TestValidateFailureRateBounds(t *testing.T) {
	property := func(rate float64) bool {
		c := Default()
		c.Demo.FailureRate = rate
		err := c.validate()
		if rate >= 0 && rate <= 1 {
			return err == nil
		}
		return err != nil
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
