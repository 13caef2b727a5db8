// Copyright 2026 The magrtp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	runs    *prometheus.CounterVec
	latency prometheus.Histogram
	points  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "magrtp",
				Name:      "runs_total",
				Help:      "Number of RTP reductions, by outcome.",
			}, []string{"status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "magrtp",
			Name:      "run_seconds",
			Help:      "Time spent reducing a profile to the pole.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		points: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "magrtp",
			Name:      "points",
			Help:      "Number of samples per reduced profile.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
	}
	reg.MustRegister(m.runs, m.latency, m.points)
	return m
}

func (m *metrics) observe(status string, secs float64, n int) {
	m.runs.WithLabelValues(status).Inc()
	if status != "ok" {
		return
	}
	m.latency.Observe(secs)
	m.points.Observe(float64(n))
}
