// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package metrics exports platform readings as prometheus gauges.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	Thermal *prometheus.GaugeVec
	FanRPM  *prometheus.GaugeVec
	PsuPout *prometheus.GaugeVec
	Present *prometheus.GaugeVec
}

func New() *Metrics {
	labels := []string{"id", "name"}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Thermal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "onlp_thermal_millicelsius",
			Help: "Temperature of the thermal sensor.",
		}, labels),
		FanRPM: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "onlp_fan_rpm",
			Help: "Fan speed in revolutions per minute.",
		}, labels),
		PsuPout: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "onlp_psu_milliwatts_out",
			Help: "Power supply output power.",
		}, labels),
		Present: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "onlp_oid_present",
			Help: "1 if the platform object is present.",
		}, []string{"type", "id", "name"}),
	}
	m.Registry.MustRegister(m.Thermal, m.FanRPM, m.PsuPout, m.Present)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) present(h onlp.Hdr, present bool) {
	v := 0.0
	if present {
		v = 1
	}
	m.Present.WithLabelValues(h.ID.Type().String(),
		strconv.Itoa(h.ID.ID()), h.Description).Set(v)
}

func (m *Metrics) SetThermal(ti *onlp.ThermalInfo) {
	present := ti.Status&onlp.ThermalStatusPresent != 0
	m.present(ti.Hdr, present)
	if present && ti.Caps&onlp.ThermalCapsGetTemperature != 0 {
		m.Thermal.WithLabelValues(strconv.Itoa(ti.ID.ID()),
			ti.Description).Set(float64(ti.MilliCelsius))
	}
}

func (m *Metrics) SetFan(fi *onlp.FanInfo) {
	present := fi.Status&onlp.FanStatusPresent != 0
	m.present(fi.Hdr, present)
	if present && fi.Caps&onlp.FanCapsGetRPM != 0 {
		m.FanRPM.WithLabelValues(strconv.Itoa(fi.ID.ID()),
			fi.Description).Set(float64(fi.RPM))
	}
}

func (m *Metrics) SetPsu(pi *onlp.PsuInfo) {
	present := pi.Status&onlp.PsuStatusPresent != 0
	m.present(pi.Hdr, present)
	if present && pi.Caps&onlp.PsuCapsPout != 0 {
		m.PsuPout.WithLabelValues(strconv.Itoa(pi.ID.ID()),
			pi.Description).Set(float64(pi.MilliPout))
	}
}

// Update sets the gauges of every object of the platform.
func (m *Metrics) Update(p onlp.Platform) {
	if t, ok := p.(onlp.Thermals); ok {
		for _, oid := range t.ThermalOIDs() {
			if ti, err := t.ThermalInfo(oid); err == nil {
				m.SetThermal(ti)
			}
		}
	}
	if t, ok := p.(onlp.Fans); ok {
		for _, oid := range t.FanOIDs() {
			if fi, err := t.FanInfo(oid); err == nil {
				m.SetFan(fi)
			}
		}
	}
	if t, ok := p.(onlp.Psus); ok {
		for _, oid := range t.PsuOIDs() {
			if pi, err := t.PsuInfo(oid); err == nil {
				m.SetPsu(pi)
			}
		}
	}
}
