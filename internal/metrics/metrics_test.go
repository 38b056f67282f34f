// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSet(t *testing.T) {
	assert := test.Assert{TB: t}
	m := New()
	m.SetThermal(&onlp.ThermalInfo{
		Hdr:          onlp.Hdr{ID: onlp.ThermalOID(2), Description: "LM75_1 U61"},
		Status:       onlp.ThermalStatusPresent,
		Caps:         onlp.ThermalCapsAll,
		MilliCelsius: 38500,
	})
	m.SetPsu(&onlp.PsuInfo{
		Hdr:       onlp.Hdr{ID: onlp.PsuOID(1), Description: "PSU-1"},
		Status:    onlp.PsuStatusPresent,
		Caps:      onlp.PsuCapsAC | onlp.PsuCapsPout,
		MilliPout: 123000,
	})
	m.SetFan(&onlp.FanInfo{
		Hdr:  onlp.Hdr{ID: onlp.FanOID(3), Description: "Chassis Fan 3"},
		Caps: onlp.FanCapsGetRPM,
	})
	assert.True(testutil.ToFloat64(
		m.Thermal.WithLabelValues("2", "LM75_1 U61")) == 38500)
	assert.True(testutil.ToFloat64(
		m.PsuPout.WithLabelValues("1", "PSU-1")) == 123000)
	assert.True(testutil.ToFloat64(
		m.Present.WithLabelValues("fan", "3", "Chassis Fan 3")) == 0)
	assert.True(testutil.ToFloat64(
		m.Present.WithLabelValues("psu", "1", "PSU-1")) == 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(strings.Contains(rec.Body.String(),
		`onlp_thermal_millicelsius{id="2",name="LM75_1 U61"} 38500`))
}
