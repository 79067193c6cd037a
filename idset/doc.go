// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package idset implements a generic set of comparable elements, backed
// by a map.
//
// This is a generics-based replacement for the teacher's generated
// per-type "set" package: one Set[T] takes the place of the ~30
// generated FooT/FooBoolT types, since Go generics now express what
// go:generate + text/template used to.
//
//	s1 := idset.FromSlice([]int{1, 2})
//	s2 := idset.FromSlice([]int{2, 3})
//
//	s1.Difference(s2)   // s1 == {1}
//	s1.Intersection(s2) // s1 == {}
//	s1.Union(s2)        // s1 == {2, 3}
package idset
