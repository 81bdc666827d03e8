// Package xrmath holds the small amount of 3D math the tracked-controls
// engine needs: vectors, quaternions, XYZ Euler angles and column-major 4x4
// rigid transforms.
//
// Conventions follow the usual WebGL / WebXR layout:
//
//	right-handed, +Y up, -Z forward
//	Mat4 is column-major: m[col*4+row]
//	Euler angles are radians, applied in X, then Y, then Z order
package xrmath
