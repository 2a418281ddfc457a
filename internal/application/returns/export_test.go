package returns

import "time"

// SetClock reemplaza el reloj del registro de sesiones.
func SetClock(uc *UseCase, now func() time.Time) { uc.now = now }
