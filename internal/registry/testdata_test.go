package registry

const sarsCoV2Record = `<?xml version="1.0" encoding="UTF-8"  ?>
<!DOCTYPE GBSet PUBLIC "-//NCBI//NCBI GBSeq/EN" "https://www.ncbi.nlm.nih.gov/dtd/NCBI_GBSeq.dtd">
<GBSet>
  <GBSeq>
    <GBSeq_locus>NC_045512</GBSeq_locus>
    <GBSeq_length>29903</GBSeq_length>
    <GBSeq_definition>Severe acute respiratory syndrome coronavirus 2 isolate Wuhan-Hu-1, complete genome</GBSeq_definition>
    <GBSeq_primary-accession>NC_045512</GBSeq_primary-accession>
    <GBSeq_source>Severe acute respiratory syndrome coronavirus 2 (SARS-CoV-2)</GBSeq_source>
    <GBSeq_organism>Severe acute respiratory syndrome coronavirus 2</GBSeq_organism>
    <GBSeq_taxonomy>Viruses; Riboviria; Orthornavirae; Pisuviricota; Pisoniviricetes; Nidovirales</GBSeq_taxonomy>
  </GBSeq>
</GBSet>
`

const ecoliRecord = `<?xml version="1.0"?>
<GBSet>
  <GBSeq>
    <GBSeq_locus>NC_000913</GBSeq_locus>
    <GBSeq_organism>Escherichia coli</GBSeq_organism>
  </GBSeq>
</GBSet>
`
