package robot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tmscore/control/internal/httpc"
)

// vendor distinguishes the small differences between otherwise-identical
// HTTP robot APIs (endpoint paths, pose field ordering).
type vendor string

const (
	vendorElfin       vendor = "elfin"
	vendorElfinNewAPI vendor = "elfin_new_api"
	vendorDobot       vendor = "dobot"
	vendorUR          vendor = "ur"
)

// httpDriver implements Driver over a vendor robot's HTTP control API,
// generalizing an HTTPController/postMove pattern from a
// fixed Reachy Mini daemon API to a small set of vendor REST dialects.
type httpDriver struct {
	baseURL   string
	v         vendor
	connected bool
	moving    bool
	errored   bool
}

func newHTTPDriver(v vendor, baseURL string) *httpDriver {
	return &httpDriver{v: v, baseURL: baseURL}
}

// NewElfinDriver returns a Driver for the Elfin HTTP API.
func NewElfinDriver(robotIP string) Driver {
	return newHTTPDriver(vendorElfin, fmt.Sprintf("http://%s:8080", robotIP))
}

// NewElfinNewAPIDriver returns a Driver for Elfin's newer HTTP API.
func NewElfinNewAPIDriver(robotIP string) Driver {
	return newHTTPDriver(vendorElfinNewAPI, fmt.Sprintf("http://%s:8080", robotIP))
}

// NewDobotDriver returns a Driver for the Dobot HTTP API.
func NewDobotDriver(robotIP string) Driver {
	return newHTTPDriver(vendorDobot, fmt.Sprintf("http://%s:9000", robotIP))
}

// NewURDriver returns a Driver for the Universal Robot HTTP API.
func NewURDriver(robotIP string) Driver {
	return newHTTPDriver(vendorUR, fmt.Sprintf("http://%s:30004", robotIP))
}

func (d *httpDriver) Connect() bool {
	resp, err := httpc.Get(d.baseURL + "/status")
	if err != nil {
		return false
	}
	resp.Body.Close()
	d.connected = true
	return true
}

func (d *httpDriver) Initialize() {}

func (d *httpDriver) IsConnected() bool {
	return d.connected
}

func (d *httpDriver) GetPose() (Pose6, bool) {
	resp, err := httpc.Get(d.baseURL + "/pose")
	if err != nil {
		return Pose6{}, false
	}
	defer resp.Body.Close()

	var p Pose6
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Pose6{}, false
	}
	return p, true
}

func (d *httpDriver) IsMoving() bool {
	return d.moving
}

func (d *httpDriver) IsErrorState() bool {
	return d.errored
}

func (d *httpDriver) postJSON(path string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	req, err := http.NewRequest(http.MethodPost, d.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpc.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func (d *httpDriver) MoveLinear(target Pose6) bool {
	ok := d.postJSON("/move/linear", target)
	if ok {
		d.moving = true
	}
	return ok
}

func (d *httpDriver) MoveCircular(start, waypoint, target Pose6) bool {
	payload := struct {
		Start, Waypoint, Target Pose6
	}{start, waypoint, target}
	ok := d.postJSON("/move/circular", payload)
	if ok {
		d.moving = true
	}
	return ok
}

func (d *httpDriver) MoveLinearRelative(axis Axis, direction, distance float64) bool {
	payload := struct {
		Axis      Axis
		Direction float64
		Distance  float64
	}{axis, direction, distance}
	ok := d.postJSON("/move/linear_relative", payload)
	if ok {
		d.moving = true
	}
	return ok
}

func (d *httpDriver) StopRobot() bool {
	ok := d.postJSON("/stop", struct{}{})
	if ok {
		d.moving = false
	}
	return ok
}

func (d *httpDriver) EnableFreeDrive() {
	d.postJSON("/freedrive/enable", struct{}{})
}

func (d *httpDriver) DisableFreeDrive() {
	d.postJSON("/freedrive/disable", struct{}{})
}

func (d *httpDriver) ReadForceSensor() [6]float64 {
	resp, err := httpc.Get(d.baseURL + "/force")
	if err != nil {
		return [6]float64{}
	}
	defer resp.Body.Close()

	var f [6]float64
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return [6]float64{}
	}
	return f
}

func (d *httpDriver) Close() error {
	d.connected = false
	return nil
}
