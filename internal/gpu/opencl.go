//go:build opencl

package gpu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
	"github.com/rs/zerolog/log"
)

const oceanKernelSource = `__kernel void simulate_frequency(
    const int n,
    const float gravity,
    const float mod_x,
    const float mod_z,
    const float t,
    __global const float* dist,
    __global float* out)
{
    int idx = get_global_id(0);
    if (idx >= n * n) {
        return;
    }
    int x = idx % n;
    int z = idx / n;
    float kx = mod_x * (float)(x > n / 2 ? x - n : x);
    float kz = mod_z * (float)(z > n / 2 ? z - n : z);
    float omega = sqrt(gravity * sqrt(kx * kx + kz * kz));
    float c = cos(omega * t);
    float s = sin(omega * t);
    int i = idx * 4;
    int m = (((n - z) % n) * n + ((n - x) % n)) * 4;
    float ar = dist[i];
    float ai = dist[i + 1];
    float br = dist[m];
    float bi = -dist[m + 1];
    out[i] = ar * c - ai * s + br * c + bi * s;
    out[i + 1] = ar * s + ai * c + bi * c - br * s;
    out[i + 2] = 0.0f;
    out[i + 3] = 0.0f;
}

__kernel void butterfly_stage(
    const int n,
    const int horizontal,
    __global const float* table,
    __global const float* in,
    __global float* out)
{
    int idx = get_global_id(0);
    if (idx >= n * n) {
        return;
    }
    int x = idx % n;
    int y = idx / n;
    int b = horizontal ? idx * 4 : (x * n + y) * 4;
    int s1 = clamp((int)floor(table[b] * n), 0, n - 1);
    int s2 = clamp((int)floor(table[b + 1] * n), 0, n - 1);
    float wr = table[b + 2];
    float wi = table[b + 3];
    int a = horizontal ? (y * n + s1) * 4 : (s1 * n + x) * 4;
    int c = horizontal ? (y * n + s2) * 4 : (s2 * n + x) * 4;
    int o = idx * 4;
    out[o] = in[a] + wr * in[c] - wi * in[c + 1];
    out[o + 1] = in[a + 1] + wr * in[c + 1] + wi * in[c];
    out[o + 2] = in[a + 2] + wr * in[c + 2] - wi * in[c + 3];
    out[o + 3] = in[a + 3] + wr * in[c + 3] + wi * in[c + 2];
}

__kernel void copy_surface(
    const int count,
    __global const float* src,
    __global float* dst)
{
    int idx = get_global_id(0);
    if (idx >= count) {
        return;
    }
    dst[idx] = src[idx];
}`

// deviceSurface tracks the device buffer that mirrors a host Surface.
type deviceSurface struct {
	mem *cl.MemObject
	// version is the host version last uploaded.
	version uint64
	synced  bool
	// ahead is set when a pass wrote the buffer after the last download.
	ahead bool
}

// OpenCLDevice runs passes as OpenCL kernels. Surfaces are mirrored into
// device buffers on first use and re-uploaded only when the host modifies them.
type OpenCLDevice struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	frequency  *cl.Kernel
	butterfly  *cl.Kernel
	copier     *cl.Kernel
	surfaces   map[uint64]*deviceSurface
	deviceName string
}

// NewOpenCLDevice picks the first GPU, or failing that the first CPU, that
// any OpenCL platform reports and compiles the ocean kernels for it.
func NewOpenCLDevice() (Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	d := &OpenCLDevice{
		surfaces:   make(map[uint64]*deviceSurface),
		deviceName: device.Name(),
	}
	if d.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if d.queue, err = d.context.CreateCommandQueue(device, 0); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if d.program, err = d.context.CreateProgramWithSource([]string{oceanKernelSource}); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := d.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		d.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if d.frequency, err = d.program.CreateKernel("simulate_frequency"); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating frequency kernel: %w", err)
	}
	if d.butterfly, err = d.program.CreateKernel("butterfly_stage"); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating butterfly kernel: %w", err)
	}
	if d.copier, err = d.program.CreateKernel("copy_surface"); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating copy kernel: %w", err)
	}
	log.Info().Str("component", "gpu").Str("device", d.deviceName).Msg("using OpenCL compute device")
	return d, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (d *OpenCLDevice) Name() string {
	return "opencl " + d.deviceName
}

// bind returns the device mirror of s, uploading host data when it changed.
func (d *OpenCLDevice) bind(s *Surface) (*deviceSurface, error) {
	ds, ok := d.surfaces[s.id]
	if !ok {
		mem, err := d.context.CreateEmptyBuffer(cl.MemReadWrite, len(s.texels)*int(unsafe.Sizeof(float32(0))))
		if err != nil {
			return nil, fmt.Errorf("allocating surface %d: %w", s.id, err)
		}
		ds = &deviceSurface{mem: mem}
		d.surfaces[s.id] = ds
	}
	if !ds.synced || ds.version != s.version {
		if _, err := d.queue.EnqueueWriteBufferFloat32(ds.mem, false, 0, s.texels, nil); err != nil {
			return nil, fmt.Errorf("writing surface %d: %w", s.id, err)
		}
		ds.version = s.version
		ds.synced = true
		ds.ahead = false
	}
	return ds, nil
}

func (d *OpenCLDevice) run(kernel *cl.Kernel, global int) error {
	if _, err := d.queue.EnqueueNDRangeKernel(kernel, nil, []int{global}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	return nil
}

func (d *OpenCLDevice) SimulateFrequency(ctx context.Context, p FrequencyPass) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	dist, err := d.bind(p.Distribution)
	if err != nil {
		return err
	}
	out, err := d.bind(p.Output)
	if err != nil {
		return err
	}
	n := p.Output.size
	if err := d.frequency.SetArgs(
		int32(n),
		float32(p.Gravity),
		float32(p.Mod[0]),
		float32(p.Mod[1]),
		float32(p.Time),
		dist.mem,
		out.mem,
	); err != nil {
		return fmt.Errorf("setting frequency kernel arguments: %w", err)
	}
	if err := d.run(d.frequency, n*n); err != nil {
		return err
	}
	out.ahead = true
	return nil
}

func (d *OpenCLDevice) Butterfly(ctx context.Context, p ButterflyPass) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	table, err := d.bind(p.Table)
	if err != nil {
		return err
	}
	in, err := d.bind(p.Input)
	if err != nil {
		return err
	}
	out, err := d.bind(p.Output)
	if err != nil {
		return err
	}
	horizontal := int32(0)
	if p.Horizontal {
		horizontal = 1
	}
	n := p.Output.size
	if err := d.butterfly.SetArgs(int32(n), horizontal, table.mem, in.mem, out.mem); err != nil {
		return fmt.Errorf("setting butterfly kernel arguments: %w", err)
	}
	if err := d.run(d.butterfly, n*n); err != nil {
		return err
	}
	out.ahead = true
	return nil
}

func (d *OpenCLDevice) Copy(ctx context.Context, dst, src *Surface) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateCopy(dst, src); err != nil {
		return err
	}
	from, err := d.bind(src)
	if err != nil {
		return err
	}
	to, err := d.bind(dst)
	if err != nil {
		return err
	}
	count := len(src.texels)
	if err := d.copier.SetArgs(int32(count), from.mem, to.mem); err != nil {
		return fmt.Errorf("setting copy kernel arguments: %w", err)
	}
	if err := d.run(d.copier, count); err != nil {
		return err
	}
	to.ahead = true
	return nil
}

// Download blocks until s holds the latest device results.
func (d *OpenCLDevice) Download(ctx context.Context, s *Surface) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ds, ok := d.surfaces[s.id]
	if !ok || !ds.ahead {
		return nil
	}
	if _, err := d.queue.EnqueueReadBufferFloat32(ds.mem, true, 0, s.texels, nil); err != nil {
		return fmt.Errorf("reading surface %d: %w", s.id, err)
	}
	ds.ahead = false
	return nil
}

func (d *OpenCLDevice) Close() error {
	for id, ds := range d.surfaces {
		ds.mem.Release()
		delete(d.surfaces, id)
	}
	if d.copier != nil {
		d.copier.Release()
		d.copier = nil
	}
	if d.butterfly != nil {
		d.butterfly.Release()
		d.butterfly = nil
	}
	if d.frequency != nil {
		d.frequency.Release()
		d.frequency = nil
	}
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.context != nil {
		d.context.Release()
		d.context = nil
	}
	return nil
}
