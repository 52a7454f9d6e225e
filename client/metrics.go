package client

import (
	"encoding/json"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SysMetrics is a sample of host and process health published on
// SubjectMetricsSys
type SysMetrics struct {
	Time          time.Time `json:"time"`
	CPUPercent    float64   `json:"cpuPercent"`
	MemUsedPct    float64   `json:"memUsedPct"`
	DiskUsedPct   float64   `json:"diskUsedPct"`
	Load1         float64   `json:"load1"`
	UptimeS       uint64    `json:"uptimeS"`
	ProcMemRSS    uint64    `json:"procMemRSS"`
	NumGoroutines int       `json:"numGoroutines"`
}

// MetricsClient periodically samples system metrics with gopsutil and
// publishes them over NATS
type MetricsClient struct {
	nc     *nats.Conn
	period time.Duration
	stop   chan struct{}
}

// NewMetricsClient creates a metrics client. A period of 0 defaults to
// 2 minutes.
func NewMetricsClient(nc *nats.Conn, period time.Duration) *MetricsClient {
	if period <= 0 {
		period = 2 * time.Minute
	}

	return &MetricsClient{
		nc:     nc,
		period: period,
		stop:   make(chan struct{}),
	}
}

func (m *MetricsClient) sample() SysMetrics {
	ret := SysMetrics{
		Time:          time.Now().UTC(),
		NumGoroutines: runtime.NumGoroutine(),
	}

	percent, err := cpu.Percent(0, false)
	if err == nil && len(percent) > 0 {
		ret.CPUPercent = percent[0]
	}

	vm, err := mem.VirtualMemory()
	if err == nil {
		ret.MemUsedPct = vm.UsedPercent
	}

	du, err := disk.Usage("/")
	if err == nil {
		ret.DiskUsedPct = du.UsedPercent
	}

	avg, err := load.Avg()
	if err == nil {
		ret.Load1 = avg.Load1
	}

	uptime, err := host.Uptime()
	if err == nil {
		ret.UptimeS = uptime
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			ret.ProcMemRSS = mi.RSS
		}
	}

	return ret
}

func (m *MetricsClient) publish() {
	b, err := json.Marshal(m.sample())
	if err != nil {
		log.Println("Metrics: error encoding sample: ", err)
		return
	}

	err = m.nc.Publish(SubjectMetricsSys, b)
	if err != nil {
		log.Println("Metrics: error publishing sample: ", err)
	}
}

// Run the main logic for this client and blocks until stopped
func (m *MetricsClient) Run() error {
	sampleTicker := time.NewTicker(m.period)
	defer sampleTicker.Stop()

	for {
		select {
		case <-m.stop:
			return nil

		case <-sampleTicker.C:
			m.publish()
		}
	}
}

// Stop the metrics client
func (m *MetricsClient) Stop(_ error) {
	close(m.stop)
}
