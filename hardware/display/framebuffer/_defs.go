// +build ignore

// Source for defs.gen.go, see the go:generate line in framebuffer.go.
package framebuffer

/*
#include <linux/fb.h>
*/
import "C"

type fixedScreenInfo C.struct_fb_fix_screeninfo
type variableScreenInfo C.struct_fb_var_screeninfo
type bitField C.struct_fb_bitfield

const (
	getFixedScreenInfo    uintptr = C.FBIOGET_FSCREENINFO
	getVariableScreenInfo uintptr = C.FBIOGET_VSCREENINFO
)
