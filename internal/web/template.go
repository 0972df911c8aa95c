package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dharmor/thermostat/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Thermostat</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.heating { color: #c00; font-weight: bold; }
.cooling { color: #06c; font-weight: bold; }
.idle { color: #888; }
.stale { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Thermostat</h1>

<h2>State</h2>
<table>
<tr><th>Temperature</th><td>{{printf "%.1f" .Temperature}}&deg;F{{if .Stale}} <span class="stale">(stale)</span>{{end}}</td></tr>
<tr><th>Humidity</th><td>{{printf "%.1f" .Humidity}}%</td></tr>
<tr><th>Set Point</th><td>{{.SetPoint}}&deg;F</td></tr>
<tr><th>Decision</th><td class="{{if eq .Decision.String "HEATING"}}heating{{else if eq .Decision.String "COOLING"}}cooling{{else}}idle{{end}}">{{.Decision}}</td></tr>
{{if .HasPending}}<tr><th>Pending</th><td>{{.PendingDecision}} (held by dwell)</td></tr>{{end}}
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Serial</th><td>{{.Config.SerialDevice}} @ {{.Config.SerialBaud}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
</table>

<h2>Counters</h2>
<table>
<tr><th>Presses (+)</th><td>{{.Counts.IncAccepted}} accepted, {{.Counts.IncSuppressed}} bounced</td></tr>
<tr><th>Presses (&minus;)</th><td>{{.Counts.DecAccepted}} accepted, {{.Counts.DecSuppressed}} bounced</td></tr>
<tr><th>Sensor failures</th><td>{{.Counts.SensorFailures}}</td></tr>
<tr><th>Reports</th><td>{{.Counts.ReportsSent}} sent, {{.Counts.ReportsDropped}} dropped</td></tr>
<tr><th>Dwell holds</th><td>{{.Counts.DwellHolds}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll / Sample / Report</th><td>{{.Config.PollMs}}ms / {{.Config.SampleMs}}ms / {{.Config.ReportMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Dwell</th><td>{{.Config.DwellSec}}s</td></tr>
<tr><th>Hysteresis</th><td>{{printf "%.1f" .Config.Hysteresis}}&deg;F</td></tr>
<tr><th>Set point range</th><td>{{.Config.SetPointMin}}&ndash;{{.Config.SetPointMax}}&deg;F</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
