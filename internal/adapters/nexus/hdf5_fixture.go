//go:build integration_hdf5

package nexus

// #cgo LDFLAGS: -lhdf5
// #include <stdlib.h>
// #include <hdf5.h>
//
// #define FX_I32LE 0
// #define FX_F32LE 1
// #define FX_U32LE 2
// #define FX_I64LE 3
// #define FX_F64BE 4
//
// static hid_t fx_file_type(int k) {
// 	switch (k) {
// 	case FX_I32LE: return H5T_STD_I32LE;
// 	case FX_F32LE: return H5T_IEEE_F32LE;
// 	case FX_U32LE: return H5T_STD_U32LE;
// 	case FX_I64LE: return H5T_STD_I64LE;
// 	default:       return H5T_IEEE_F64BE;
// 	}
// }
//
// static hid_t fx_mem_type(int k) {
// 	switch (k) {
// 	case FX_I32LE: return H5T_NATIVE_INT32;
// 	case FX_F32LE: return H5T_NATIVE_FLOAT;
// 	case FX_U32LE: return H5T_NATIVE_UINT32;
// 	case FX_I64LE: return H5T_NATIVE_INT64;
// 	default:       return H5T_NATIVE_DOUBLE;
// 	}
// }
//
// static hid_t fx_create(hid_t f, const char *name, hid_t ft, hsize_t n) {
// 	hid_t lcpl = H5Pcreate(H5P_LINK_CREATE);
// 	H5Pset_create_intermediate_group(lcpl, 1);
// 	hid_t sp = H5Screate_simple(1, &n, NULL);
// 	hid_t ds = H5Dcreate2(f, name, ft, sp, lcpl, H5P_DEFAULT, H5P_DEFAULT);
// 	H5Sclose(sp);
// 	H5Pclose(lcpl);
// 	return ds;
// }
//
// static hid_t fx_create_file(const char *path) {
// 	return H5Fcreate(path, H5F_ACC_TRUNC, H5P_DEFAULT, H5P_DEFAULT);
// }
//
// static herr_t fx_numeric(hid_t f, const char *name, int k, hsize_t n, const void *buf) {
// 	hid_t ds = fx_create(f, name, fx_file_type(k), n);
// 	if (ds < 0) return -1;
// 	herr_t rc = H5Dwrite(ds, fx_mem_type(k), H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
// 	H5Dclose(ds);
// 	return rc;
// }
//
// static herr_t fx_fixed(hid_t f, const char *name, size_t width, int spacepad, hsize_t n, const void *buf) {
// 	hid_t ft = H5Tcopy(H5T_C_S1);
// 	H5Tset_size(ft, width);
// 	H5Tset_strpad(ft, spacepad ? H5T_STR_SPACEPAD : H5T_STR_NULLPAD);
// 	hid_t ds = fx_create(f, name, ft, n);
// 	herr_t rc = ds < 0 ? -1 : H5Dwrite(ds, ft, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
// 	if (ds >= 0) H5Dclose(ds);
// 	H5Tclose(ft);
// 	return rc;
// }
//
// static herr_t fx_vlen(hid_t f, const char *name, hsize_t n, char **strs) {
// 	hid_t ft = H5Tcopy(H5T_C_S1);
// 	H5Tset_size(ft, H5T_VARIABLE);
// 	hid_t ds = fx_create(f, name, ft, n);
// 	herr_t rc = ds < 0 ? -1 : H5Dwrite(ds, ft, H5S_ALL, H5S_ALL, H5P_DEFAULT, strs);
// 	if (ds >= 0) H5Dclose(ds);
// 	H5Tclose(ft);
// 	return rc;
// }
import "C"

import (
	"fmt"
	"unsafe"
)

// h5Fixture writes typed datasets for adapter tests; each write names its
// on-disk type so the reader has to convert
type h5Fixture struct{ id C.hid_t }

func createFixture(path string) (*h5Fixture, error) {
	cp := C.CString(path)
	defer C.free(unsafe.Pointer(cp))
	id := C.fx_create_file(cp)
	if id < 0 {
		return nil, fmt.Errorf("create %s", path)
	}
	return &h5Fixture{id: id}, nil
}

func (f *h5Fixture) numeric(name string, kind C.int, n int, buf unsafe.Pointer) error {
	cn := C.CString(name)
	defer C.free(unsafe.Pointer(cn))
	if C.fx_numeric(f.id, cn, kind, C.hsize_t(n), buf) < 0 {
		return fmt.Errorf("write %s", name)
	}
	return nil
}

// Int32s stores v as little-endian int32
func (f *h5Fixture) Int32s(name string, v ...int32) error {
	return f.numeric(name, C.FX_I32LE, len(v), unsafe.Pointer(&v[0]))
}

// Float32s stores v as little-endian float32
func (f *h5Fixture) Float32s(name string, v ...float32) error {
	return f.numeric(name, C.FX_F32LE, len(v), unsafe.Pointer(&v[0]))
}

// Uint32s stores v as little-endian uint32
func (f *h5Fixture) Uint32s(name string, v ...uint32) error {
	return f.numeric(name, C.FX_U32LE, len(v), unsafe.Pointer(&v[0]))
}

// Int64s stores v as little-endian int64
func (f *h5Fixture) Int64s(name string, v ...int64) error {
	return f.numeric(name, C.FX_I64LE, len(v), unsafe.Pointer(&v[0]))
}

// Float64sBE stores v as big-endian float64
func (f *h5Fixture) Float64sBE(name string, v ...float64) error {
	return f.numeric(name, C.FX_F64BE, len(v), unsafe.Pointer(&v[0]))
}

// FixedStrings stores v as width-byte strings, NUL or space padded
func (f *h5Fixture) FixedStrings(name string, width int, spacePad bool, v ...string) error {
	buf := make([]byte, width*len(v))
	for i, s := range v {
		padFixed(buf[i*width:(i+1)*width], s, spacePad)
	}
	cn := C.CString(name)
	defer C.free(unsafe.Pointer(cn))
	sp := C.int(0)
	if spacePad {
		sp = 1
	}
	if C.fx_fixed(f.id, cn, C.size_t(width), sp, C.hsize_t(len(v)), unsafe.Pointer(&buf[0])) < 0 {
		return fmt.Errorf("write %s", name)
	}
	return nil
}

// VarStrings stores v as variable-length strings
func (f *h5Fixture) VarStrings(name string, v ...string) error {
	// the slice holds C pointers only, so it may be passed to C
	ptrs := make([]*C.char, len(v))
	for i, s := range v {
		ptrs[i] = C.CString(s)
		defer C.free(unsafe.Pointer(ptrs[i]))
	}
	cn := C.CString(name)
	defer C.free(unsafe.Pointer(cn))
	if C.fx_vlen(f.id, cn, C.hsize_t(len(v)), &ptrs[0]) < 0 {
		return fmt.Errorf("write %s", name)
	}
	return nil
}

func (f *h5Fixture) Close() error {
	if C.H5Fclose(f.id) < 0 {
		return fmt.Errorf("close fixture")
	}
	return nil
}
