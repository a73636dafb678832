package station

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// tpvReport is the subset of a gpsd TPV JSON object we care about.
type tpvReport struct {
	Class string  `json:"class"`
	Mode  int     `json:"mode"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Alt   float64 `json:"altMSL"`
}

// FromGPSD connects to gpsd at addr, enables watch mode, and reads TPV
// reports until a 2D or 3D fix is obtained. The returned station keeps the
// given name; callers fall back to configured coordinates on error.
func FromGPSD(name, addr string, timeout time.Duration) (GroundStation, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return GroundStation{}, fmt.Errorf("gpsd connect: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return GroundStation{}, fmt.Errorf("gpsd set deadline: %w", err)
	}

	if _, err := fmt.Fprint(conn, `?WATCH={"enable":true,"json":true};`); err != nil {
		return GroundStation{}, fmt.Errorf("gpsd watch: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var report tpvReport
		if err := json.Unmarshal(scanner.Bytes(), &report); err != nil {
			continue
		}
		if report.Class != "TPV" || report.Mode < 2 {
			continue
		}
		st := GroundStation{
			Name:         name,
			LatitudeDeg:  report.Lat,
			LongitudeDeg: report.Lon,
			ElevationM:   report.Alt,
		}
		if err := st.Validate(); err != nil {
			return GroundStation{}, fmt.Errorf("gpsd fix: %w", err)
		}
		return st, nil
	}

	if err := scanner.Err(); err != nil {
		return GroundStation{}, fmt.Errorf("gpsd read: %w", err)
	}

	return GroundStation{}, fmt.Errorf("gpsd: no fix obtained within %v", timeout)
}
