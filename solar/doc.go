/*
Package solar implements the irradiance model used for production
estimates: solar position, relative/absolute airmass, the Ineichen-Perez
clearsky GHI model, and the angle-of-incidence projection onto a tilted
panel surface.

All angles are degrees unless noted, times are UTC, and irradiance is
W/m^2.
*/
package solar
