// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a thin facade over the meter backend. Meters are noops
// until InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

var metrics Metrics = noopMetrics{}

// Metrics creates meters by name. Asking twice for the same name returns
// the same meter.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler serves the collected meters. It is nil while metrics are off.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

var (
	// BucketTxMicros buckets transaction run time in microseconds.
	BucketTxMicros = []int64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10_000, 50_000}
	// BucketHTTPReqs buckets API latency in milliseconds.
	BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}
)

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.GetOrCreateHistogramMeter(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.GetOrCreateHistogramVecMeter(name, labels, buckets)
}

func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

func Gauge(name string) GaugeMeter { return metrics.GetOrCreateGaugeMeter(name) }

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.GetOrCreateGaugeVecMeter(name, labels)
}

// LazyLoad defers creating a meter to its first use, so package level meters
// bind to whichever backend is active by then.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}
