// Package repository define los contratos de acceso al directorio de aplicaciones.
//
// Las implementaciones viven en internal/store/*. El directorio es de solo
// lectura para el relay: los registros se administran fuera de banda.
package repository
