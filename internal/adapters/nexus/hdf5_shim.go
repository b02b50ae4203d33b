package nexus

// #cgo LDFLAGS: -lhdf5
// #include <stdlib.h>
// #include <string.h>
// #include <hdf5.h>
//
// #define SXL_DOUBLE 0
// #define SXL_UINT32 1
//
// static herr_t sxl_num_io(hid_t ds, int kind, void *buf, int write) {
// 	hid_t ft = H5Dget_type(ds);
// 	if (ft < 0) return -1;
// 	H5T_class_t cls = H5Tget_class(ft);
// 	H5Tclose(ft);
// 	if (cls != H5T_INTEGER && cls != H5T_FLOAT) return -2;
// 	hid_t mt = kind == SXL_UINT32 ? H5T_NATIVE_UINT32 : H5T_NATIVE_DOUBLE;
// 	return write ? H5Dwrite(ds, mt, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf)
// 	             : H5Dread(ds, mt, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
// }
//
// static int sxl_str_info(hid_t ds, size_t *size, int *isvar, int *spacepad) {
// 	hid_t ft = H5Dget_type(ds);
// 	if (ft < 0) return -1;
// 	if (H5Tget_class(ft) != H5T_STRING) { H5Tclose(ft); return -2; }
// 	*isvar = H5Tis_variable_str(ft) > 0;
// 	*size = H5Tget_size(ft);
// 	*spacepad = H5Tget_strpad(ft) == H5T_STR_SPACEPAD;
// 	H5Tclose(ft);
// 	return 0;
// }
//
// static herr_t sxl_fixed_io(hid_t ds, void *buf, int write) {
// 	hid_t ft = H5Dget_type(ds);
// 	if (ft < 0) return -1;
// 	herr_t rc = write ? H5Dwrite(ds, ft, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf)
// 	                  : H5Dread(ds, ft, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
// 	H5Tclose(ft);
// 	return rc;
// }
//
// static hid_t sxl_vlen_type(void) {
// 	hid_t mt = H5Tcopy(H5T_C_S1);
// 	if (mt >= 0) H5Tset_size(mt, H5T_VARIABLE);
// 	return mt;
// }
//
// static char *sxl_vlen_first(hid_t ds, size_t n) {
// 	hid_t mt = sxl_vlen_type();
// 	if (mt < 0) return NULL;
// 	char **all = calloc(n, sizeof(char *));
// 	char *out = NULL;
// 	if (H5Dread(ds, mt, H5S_ALL, H5S_ALL, H5P_DEFAULT, all) >= 0) {
// 		out = strdup(all[0] ? all[0] : "");
// 		hid_t sp = H5Dget_space(ds);
// 		H5Dvlen_reclaim(mt, sp, H5P_DEFAULT, all);
// 		H5Sclose(sp);
// 	}
// 	free(all);
// 	H5Tclose(mt);
// 	return out;
// }
//
// static herr_t sxl_vlen_set_first(hid_t ds, size_t n, char *s) {
// 	hid_t mt = sxl_vlen_type();
// 	if (mt < 0) return -1;
// 	char **all = calloc(n, sizeof(char *));
// 	herr_t rc = H5Dread(ds, mt, H5S_ALL, H5S_ALL, H5P_DEFAULT, all);
// 	if (rc >= 0) {
// 		char *keep = all[0];
// 		all[0] = s;
// 		rc = H5Dwrite(ds, mt, H5S_ALL, H5S_ALL, H5P_DEFAULT, all);
// 		all[0] = keep;
// 		hid_t sp = H5Dget_space(ds);
// 		H5Dvlen_reclaim(mt, sp, H5P_DEFAULT, all);
// 		H5Sclose(sp);
// 	}
// 	free(all);
// 	H5Tclose(mt);
// 	return rc;
// }
import "C"

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"
)

var errNotNumeric = errors.New("dataset is not an integer or float type")

// numIO moves n elements between buf and the dataset. libhdf5 converts from
// the file type (any integer or float width, either byte order) to the
// native memory type named by kind
func numIO(id int64, kind C.int, buf unsafe.Pointer, write bool) error {
	w := C.int(0)
	if write {
		w = 1
	}
	switch rc := C.sxl_num_io(C.hid_t(id), kind, buf, w); {
	case rc == -2:
		return errNotNumeric
	case rc < 0 && write:
		return fmt.Errorf("H5Dwrite failed")
	case rc < 0:
		return fmt.Errorf("H5Dread failed")
	}
	return nil
}

func readFloat64s(id int64, out []float64) error {
	if len(out) == 0 {
		return nil
	}
	return numIO(id, C.SXL_DOUBLE, unsafe.Pointer(&out[0]), false)
}

func readUint32s(id int64, out []uint32) error {
	if len(out) == 0 {
		return nil
	}
	return numIO(id, C.SXL_UINT32, unsafe.Pointer(&out[0]), false)
}

func writeUint32s(id int64, v []uint32) error {
	if len(v) == 0 {
		return nil
	}
	return numIO(id, C.SXL_UINT32, unsafe.Pointer(&v[0]), true)
}

type strType struct {
	size     int
	isVar    bool
	spacePad bool
}

// strInfo reports the element width, whether the dataset holds
// variable-length strings and whether fixed values are space padded
func strInfo(id int64) (strType, error) {
	var sz C.size_t
	var v, sp C.int
	switch C.sxl_str_info(C.hid_t(id), &sz, &v, &sp) {
	case 0:
		return strType{size: int(sz), isVar: v != 0, spacePad: sp != 0}, nil
	case -2:
		return strType{}, fmt.Errorf("dataset is not a string type")
	default:
		return strType{}, fmt.Errorf("inspect string type")
	}
}

// readFirstString returns element 0 of a string dataset with n elements.
// Fixed-width values are cut at the first NUL; space padded ones also lose
// trailing spaces
func readFirstString(id int64, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("empty string dataset")
	}
	st, err := strInfo(id)
	if err != nil {
		return "", err
	}
	if st.isVar {
		cs := C.sxl_vlen_first(C.hid_t(id), C.size_t(n))
		if cs == nil {
			return "", fmt.Errorf("read variable-length string")
		}
		defer C.free(unsafe.Pointer(cs))
		return C.GoString(cs), nil
	}

	if st.size == 0 {
		return "", nil
	}
	buf := make([]byte, st.size*n)
	if C.sxl_fixed_io(C.hid_t(id), unsafe.Pointer(&buf[0]), 0) < 0 {
		return "", fmt.Errorf("read fixed-length string")
	}
	return trimFixed(buf[:st.size], st.spacePad), nil
}

// trimFixed cuts at the first NUL and drops trailing spaces for space-padded types
func trimFixed(b []byte, spacePad bool) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if spacePad {
		b = bytes.TrimRight(b, " ")
	}
	return string(b)
}

// padFixed fills dst with s followed by the dataset's pad byte
func padFixed(dst []byte, s string, spacePad bool) {
	pad := byte(0)
	if spacePad {
		pad = ' '
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = pad
	}
}

// writeFirstString replaces element 0 and keeps the others.
// A fixed-width value longer than the element width is refused
func writeFirstString(id int64, n int, s string) error {
	if n < 1 {
		return fmt.Errorf("empty string dataset")
	}
	st, err := strInfo(id)
	if err != nil {
		return err
	}
	if st.isVar {
		cs := C.CString(s)
		defer C.free(unsafe.Pointer(cs))
		if C.sxl_vlen_set_first(C.hid_t(id), C.size_t(n), cs) < 0 {
			return fmt.Errorf("write variable-length string")
		}
		return nil
	}

	if len(s) > st.size {
		return fmt.Errorf("value of %d bytes exceeds fixed width %d", len(s), st.size)
	}
	if st.size == 0 {
		return nil
	}
	buf := make([]byte, st.size*n)
	if C.sxl_fixed_io(C.hid_t(id), unsafe.Pointer(&buf[0]), 0) < 0 {
		return fmt.Errorf("read fixed-length string")
	}
	padFixed(buf[:st.size], s, st.spacePad)
	if C.sxl_fixed_io(C.hid_t(id), unsafe.Pointer(&buf[0]), 1) < 0 {
		return fmt.Errorf("write fixed-length string")
	}
	return nil
}
