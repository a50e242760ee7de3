// Package kardex define la semántica de la derivación de stock a partir del libro de
// movimientos: ENTRADA suma la cantidad, SALIDA la resta y cualquier otro tipo aporta cero.
//
// Las funciones de este paquete son puras (operan sobre slices en memoria). Los adaptadores
// SQL implementan las mismas reglas con agregaciones SUM(CASE ...) y los tests del almacén en
// memoria verifican ambas contra los mismos fixtures.
package kardex
