package trackerframe

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/tmscore/control/pkg/spatialmath"
)

// stateDim is 6 pose scalars plus their 6 velocities.
const stateDim = 12

// HeadPoseFilter is a constant-velocity Kalman filter over the 6-DOF head
// pose, run once per tick against the latest visible head pose to produce
// the filtered estimate the guard cascade and movement algorithms consume.
type HeadPoseFilter struct {
	mu sync.Mutex

	state        *mat.VecDense // [x,y,z,rx,ry,rz, vx,vy,vz,vrx,vry,vrz]
	covariance   *mat.SymDense
	processNoise *mat.SymDense
	measNoise    *mat.SymDense
	initialized  bool
	lastUpdate   time.Time
}

// NewHeadPoseFilter returns a Kalman filter with moderate default process
// and measurement noise, tuned for a head moving at walking-subject speed.
func NewHeadPoseFilter() *HeadPoseFilter {
	f := &HeadPoseFilter{
		state:        mat.NewVecDense(stateDim, nil),
		covariance:   mat.NewSymDense(stateDim, nil),
		processNoise: mat.NewSymDense(stateDim, nil),
		measNoise:    mat.NewSymDense(6, nil),
	}
	for i := 0; i < stateDim; i++ {
		f.covariance.SetSym(i, i, 1000.0)
		if i < 6 {
			f.processNoise.SetSym(i, i, 0.01)
		} else {
			f.processNoise.SetSym(i, i, 0.5)
		}
	}
	for i := 0; i < 6; i++ {
		f.measNoise.SetSym(i, i, 0.25)
	}
	return f
}

func poseVector(p spatialmath.Pose) []float64 {
	return []float64{p.X, p.Y, p.Z, p.Rx, p.Ry, p.Rz}
}

// headPoseFromState reads the first 6 state components as a Pose,
// sidestepping the concrete-type assertion that SliceVec's Vector
// interface would otherwise require.
func headPoseFromState(state *mat.VecDense) spatialmath.Pose {
	return spatialmath.Pose{
		X: state.AtVec(0), Y: state.AtVec(1), Z: state.AtVec(2),
		Rx: state.AtVec(3), Ry: state.AtVec(4), Rz: state.AtVec(5),
	}
}

func transitionMatrix(dt float64) *mat.Dense {
	F := mat.NewDense(stateDim, stateDim, nil)
	for i := 0; i < stateDim; i++ {
		F.Set(i, i, 1)
	}
	for i := 0; i < 6; i++ {
		F.Set(i, i+6, dt)
	}
	return F
}

// Update runs one predict+correct cycle against a new head pose
// measurement and returns the filtered pose. The first call seeds the
// filter directly from the measurement with zero velocity.
func (f *HeadPoseFilter) Update(measured spatialmath.Pose, now time.Time) spatialmath.Pose {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		copy(f.state.RawVector().Data[:6], poseVector(measured))
		f.initialized = true
		f.lastUpdate = now
		return measured
	}

	dt := now.Sub(f.lastUpdate).Seconds()
	if dt <= 0 {
		dt = 1.0 / 30
	}
	f.lastUpdate = now

	F := transitionMatrix(dt)

	// Predict: x = F x, P = F P Fᵀ + Q
	var predicted mat.VecDense
	predicted.MulVec(F, f.state)
	f.state.CopyVec(&predicted)

	var FP mat.Dense
	FP.Mul(F, f.covariance)
	var FPFt mat.Dense
	FPFt.Mul(&FP, F.T())

	predictedCov := mat.NewSymDense(stateDim, nil)
	for i := 0; i < stateDim; i++ {
		for j := i; j < stateDim; j++ {
			predictedCov.SetSym(i, j, FPFt.At(i, j)+f.processNoise.At(i, j))
		}
	}
	f.covariance = predictedCov

	// Measurement model: H selects the first 6 components (position+angles).
	z := mat.NewVecDense(6, poseVector(measured))
	predictedMeas := mat.NewVecDense(6, []float64{
		f.state.AtVec(0), f.state.AtVec(1), f.state.AtVec(2),
		f.state.AtVec(3), f.state.AtVec(4), f.state.AtVec(5),
	})

	var innovation mat.VecDense
	innovation.SubVec(z, predictedMeas)

	// S = H P Hᵀ + R, where H P Hᵀ is simply the top-left 6x6 block.
	S := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			S.Set(i, j, f.covariance.At(i, j)+f.measNoise.At(i, j))
		}
	}
	var Sinv mat.Dense
	if err := Sinv.Inverse(S); err != nil {
		return headPoseFromState(f.state)
	}

	// Kalman gain K = P Hᵀ S⁻¹, a stateDim x 6 matrix built from P's
	// first six columns.
	PHt := mat.NewDense(stateDim, 6, nil)
	for i := 0; i < stateDim; i++ {
		for j := 0; j < 6; j++ {
			PHt.Set(i, j, f.covariance.At(i, j))
		}
	}
	var K mat.Dense
	K.Mul(PHt, &Sinv)

	var correction mat.VecDense
	correction.MulVec(&K, &innovation)
	var corrected mat.VecDense
	corrected.AddVec(f.state, &correction)
	f.state.CopyVec(&corrected)

	// P = (I - K H) P
	var KH mat.Dense
	KHFull := mat.NewDense(stateDim, stateDim, nil)
	KH.Mul(&K, identityTopRows(6, stateDim))
	KHFull.Copy(&KH)
	var IminusKH mat.Dense
	IminusKH.Sub(identity(stateDim), KHFull)
	var newCov mat.Dense
	newCov.Mul(&IminusKH, f.covariance)

	sym := mat.NewSymDense(stateDim, nil)
	for i := 0; i < stateDim; i++ {
		for j := i; j < stateDim; j++ {
			sym.SetSym(i, j, (newCov.At(i, j)+newCov.At(j, i))/2)
		}
	}
	f.covariance = sym

	return headPoseFromState(f.state)
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// identityTopRows returns an rows x cols matrix that is the identity in
// its top-left rows x rows block and zero elsewhere — the H observation
// matrix selecting the first `rows` state components.
func identityTopRows(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Velocity returns the filter's current estimated linear speed in mm/s,
// the Euclidean norm of the translational velocity components.
func (f *HeadPoseFilter) Velocity() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	vx, vy, vz := f.state.AtVec(6), f.state.AtVec(7), f.state.AtVec(8)
	return math.Sqrt(vx*vx + vy*vy + vz*vz)
}

// Reset clears the filter, forcing the next Update to re-seed state.
func (f *HeadPoseFilter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialized = false
	f.state = mat.NewVecDense(stateDim, nil)
	for i := 0; i < stateDim; i++ {
		f.covariance.SetSym(i, i, 1000.0)
	}
}
