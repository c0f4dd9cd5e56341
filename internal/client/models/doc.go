// Package models defines the wire types exchanged with the Spillway API.
//
// Field names follow the JSON the backend emits. Optional numeric fields are
// pointers so that "absent" and "zero" stay distinguishable on updates.
package models
