/*
Package data contains common data structures that are used throughout the
project -- sites, PV system parameters, estimates, tariffs, and users.
*/
package data
